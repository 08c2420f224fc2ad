// Package pmr holds generated-style bindings for the BoolParamChoice choice
// type: a boolean discriminant selecting an int8 (true) or an int16 (false).
package pmr
