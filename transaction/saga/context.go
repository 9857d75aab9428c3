/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"maps"

	"github.com/sasha-s/go-deadlock"
)

const (
	ContextKeyTransactionID = "transactionId"
	ContextKeyCorrelationID = "correlationId"
)

// Context is the key/value store shared by every step of one saga execution. It is safe for concurrent use.
// When steps running in parallel write the same key, the last write wins.
type Context struct {
	mu     deadlock.RWMutex
	values map[string]any
}

// NewContext returns a context seeded with the transaction and correlation identifiers.
func NewContext(transactionID, correlationID string) *Context {
	return &Context{
		values: map[string]any{
			ContextKeyTransactionID: transactionID,
			ContextKeyCorrelationID: correlationID,
		},
	}
}

// Get returns the value stored under key.
func (c *Context) Get(key string) (value any, found bool) {
	defer c.mu.RUnlock()
	c.mu.RLock()
	value, found = c.values[key]
	return
}

// GetString returns the value stored under key if it is a string.
func (c *Context) GetString(key string) (value string, found bool) {
	raw, found := c.Get(key)
	if !found {
		return
	}
	value, found = raw.(string)
	return
}

// Set stores value under key.
func (c *Context) Set(key string, value any) {
	defer c.mu.Unlock()
	c.mu.Lock()
	c.values[key] = value
}

// Len returns the number of entries.
func (c *Context) Len() int {
	defer c.mu.RUnlock()
	c.mu.RLock()
	return len(c.values)
}

// Snapshot returns a copy of the entries.
func (c *Context) Snapshot() map[string]any {
	defer c.mu.RUnlock()
	c.mu.RLock()
	return maps.Clone(c.values)
}

func (c *Context) TransactionID() string {
	id, _ := c.GetString(ContextKeyTransactionID)
	return id
}

func (c *Context) CorrelationID() string {
	id, _ := c.GetString(ContextKeyCorrelationID)
	return id
}
