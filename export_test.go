package coop

// Linked returns the run list of s, front to back.
func (s *Scheduler) Linked() []*Task {
	var ts []*Task
	for t := s.head; t != nil; t = t.next {
		ts = append(ts, t)
	}
	return ts
}

// Live returns the number of contexts s counts as executing.
func (s *Scheduler) Live() int32 {
	return s.live.Load()
}
