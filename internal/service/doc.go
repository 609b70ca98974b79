// Package service applies the partial-update policy for employees and
// companies on top of the repositories and delegates everything else.
package service
