package chatstream

import "time"

// SetIDFunc overrides turn ID generation for deterministic tests.
func SetIDFunc(c *Controller, fn func() string) { c.newID = fn }

// SetNowFunc overrides the controller's clock for deterministic tests.
func SetNowFunc(c *Controller, fn func() time.Time) { c.now = fn }
