/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package idgen generates identifiers for transactions and steps.
package idgen

import (
	"github.com/gofrs/uuid/v5"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

// GenerateUUID4 generates a random (version 4) UUID.
func GenerateUUID4() (string, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return "", commonerrors.WrapError(commonerrors.ErrUnexpected, err, "failed generating uuid")
	}
	return u.String(), nil
}

// IsValidUUID states whether the string is a UUID.
func IsValidUUID(u string) bool {
	_, err := uuid.FromString(u)
	return err == nil
}
