package usecase

// PersistenceError wraps any store failure that is not a duplicate email
// or a plain "no rows" miss. The original store message stays reachable
// through Unwrap for diagnostics.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failure during " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
