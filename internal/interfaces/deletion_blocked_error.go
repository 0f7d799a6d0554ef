package interfaces

// DeletionBlockedError reports the dependent records that prevent deleting a
// resource, keyed by table name.
type DeletionBlockedError struct {
	Resource   string
	References map[string]int64
}

func (e *DeletionBlockedError) Error() string {
	return "deletion blocked"
}
