// Package fom loads FOM modules from OMT XML or CUE, checks them, and
// resolves them into a datatype model with the class members that use it.
package fom
