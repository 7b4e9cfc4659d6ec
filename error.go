package main

// glossError is a wrapper around an error that adds a user-facing reason.
type glossError struct {
	err    error
	reason string
}

func (g glossError) Error() string {
	return g.err.Error()
}

func (g glossError) Reason() string {
	return g.reason
}
