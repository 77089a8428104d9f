package service

// StudioRecorder counts draft edits by section and operation.
type StudioRecorder interface {
	ObserveEdit(section, op string)
}

type NopRecorder struct{}

func (NopRecorder) ObserveEdit(string, string) {}
