// Package model defines the declarative field specs consumed by the form
// engine together with the value, error, snapshot and payload maps it
// produces. Specs are plain values; conditional `required`/`invisible`
// behaviour is expressed through Requirement, which is either a static flag
// or a predicate computed from the current field values.
package model
