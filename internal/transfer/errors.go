package transfer

// RemoteError marks a failure reported by the service, as opposed to a
// problem with the local workspace or selection.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remote(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}
