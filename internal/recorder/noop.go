package recorder

import "AviatorAdvisor/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordHistory(_ *model.HistoryRecord) error            { return nil }
func (n *NoopRecorder) RecordTransaction(_ *model.Transaction) error          { return nil }
func (n *NoopRecorder) RecordSessionEnd(_ *model.SessionEndEvent) error       { return nil }
func (n *NoopRecorder) RecordProfileChange(_ *model.ProfileChangeEvent) error { return nil }
func (n *NoopRecorder) Summary() (Summary, error)                             { return Summary{}, nil }
func (n *NoopRecorder) Close() error                                          { return nil }
