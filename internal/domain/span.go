package domain

import "time"

// Span times one engine stage.
type Span struct {
	Name    string    `json:"name"`
	startTs time.Time

	Elapsed *time.Duration `json:"elapsed"`
}

func (s *Span) End() {
	if s.Elapsed == nil {
		t := time.Since(s.startTs)
		s.Elapsed = &t
	}
}

// Profile is an ordered list of stage spans for a single run. It is not
// safe for concurrent use; each backtest owns its own.
type Profile struct {
	Spans   []*Span
	startTs time.Time
	Total   *time.Duration
}

func NewProfile() (newProfile *Profile, endNewProfile func()) {
	newProfile = &Profile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}
	return newProfile, newProfile.End
}

func (p *Profile) End() {
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	if p.Total == nil {
		t := time.Since(p.startTs)
		p.Total = &t
	}
}

// StartNewSpan ends the last span and begins a new one
func (p *Profile) StartNewSpan(name string) (newSpan *Span, endSpan func()) {
	newSpan = &Span{
		Name:    name,
		startTs: time.Now(),
	}
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	p.Spans = append(p.Spans, newSpan)
	return newSpan, newSpan.End
}

// Fields flattens the profile into key/value pairs for a structured log line.
func (p *Profile) Fields() []interface{} {
	out := []interface{}{}
	for _, s := range p.Spans {
		if s.Elapsed != nil {
			out = append(out, s.Name, s.Elapsed.String())
		}
	}
	if p.Total != nil {
		out = append(out, "total", p.Total.String())
	}
	return out
}
