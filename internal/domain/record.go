package domain

// Record represents a single execution instance placed on a timeline.
// Timestamps are unix milliseconds.
type Record struct {
	// ID is an opaque unique identifier
	ID string

	// Key groups records onto one lane (job name), optional
	Key string

	// Status is the run state used for colouring
	Status Status

	// StartTime is when the run started, in unix milliseconds
	StartTime int64

	// EndTime is when the run finished; nil while still running
	EndTime *int64
}

// Running reports whether the record has no fixed end.
func (r Record) Running() bool {
	return r.EndTime == nil
}

// EndOr returns the record's end time, or fallback when it is still running.
func (r Record) EndOr(fallback int64) int64 {
	if r.EndTime == nil {
		return fallback
	}
	return *r.EndTime
}

// Millis returns a pointer to ms, handy for populating EndTime.
func Millis(ms int64) *int64 {
	return &ms
}

// RecordMeta is the serialized form of a Record as found in record files.
type RecordMeta struct {
	ID        string `json:"id" yaml:"id" toml:"id"`
	Key       string `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Status    string `json:"status" yaml:"status" toml:"status"`
	StartTime int64  `json:"start_time" yaml:"start_time" toml:"start_time"`
	EndTime   *int64 `json:"end_time,omitempty" yaml:"end_time,omitempty" toml:"end_time,omitempty"`
}

// ToRecord converts RecordMeta to a Record domain entity.
func (m RecordMeta) ToRecord() (Record, error) {
	st, err := ParseStatus(m.Status)
	if err != nil {
		return Record{}, err
	}
	r := Record{
		ID:        m.ID,
		Key:       m.Key,
		Status:    st,
		StartTime: m.StartTime,
	}
	if m.EndTime != nil {
		r.EndTime = Millis(*m.EndTime)
	}
	return r, nil
}

// ToMeta converts a Record to RecordMeta for serialization.
func (r Record) ToMeta() RecordMeta {
	m := RecordMeta{
		ID:        r.ID,
		Key:       r.Key,
		Status:    string(r.Status),
		StartTime: r.StartTime,
	}
	if r.EndTime != nil {
		m.EndTime = Millis(*r.EndTime)
	}
	return m
}
