package usdm

// Activity resolves an activity by id. Returns nil when absent.
func (d *StudyDesign) Activity(id string) *Activity {
	for i := range d.Activities {
		if d.Activities[i].ID == id {
			return &d.Activities[i]
		}
	}
	return nil
}

// ActivityByLabel resolves an activity by its label. Used by the rules
// engine and the reference resolver, which both receive labels from
// narrative text rather than ids.
func (d *StudyDesign) ActivityByLabel(label string) *Activity {
	for i := range d.Activities {
		if d.Activities[i].Label == label {
			return &d.Activities[i]
		}
	}
	return nil
}

// Encounter resolves an encounter by id. Returns nil when absent.
func (d *StudyDesign) Encounter(id string) *Encounter {
	for i := range d.Encounters {
		if d.Encounters[i].ID == id {
			return &d.Encounters[i]
		}
	}
	return nil
}

// Timeline resolves a schedule timeline by id. Returns nil when absent.
func (d *StudyDesign) Timeline(id string) *ScheduleTimeline {
	for i := range d.Timelines {
		if d.Timelines[i].ID == id {
			return &d.Timelines[i]
		}
	}
	return nil
}

// MainTimeline returns the timeline flagged as the main schedule, or nil
// when the design has none.
func (d *StudyDesign) MainTimeline() *ScheduleTimeline {
	for i := range d.Timelines {
		if d.Timelines[i].MainTimeline {
			return &d.Timelines[i]
		}
	}
	return nil
}

// Epoch resolves an epoch by id. Returns nil when absent.
func (d *StudyDesign) Epoch(id string) *Epoch {
	for i := range d.Epochs {
		if d.Epochs[i].ID == id {
			return &d.Epochs[i]
		}
	}
	return nil
}

// Instance resolves a scheduled instance (activity or decision) by id.
// Returns nil when the id matches neither collection.
func (t *ScheduleTimeline) Instance(id string) ScheduledInstance {
	for i := range t.Activities {
		if t.Activities[i].ID == id {
			return &t.Activities[i]
		}
	}
	for i := range t.Decisions {
		if t.Decisions[i].ID == id {
			return &t.Decisions[i]
		}
	}
	return nil
}

// Exit resolves a timeline exit by id. Returns nil when absent.
func (t *ScheduleTimeline) Exit(id string) *ScheduleTimelineExit {
	for i := range t.Exits {
		if t.Exits[i].ID == id {
			return &t.Exits[i]
		}
	}
	return nil
}

// TimingFrom returns the timing edge whose from-endpoint is the given
// instance id. Each well-formed instance has at most one; the first match
// wins on malformed input.
func (t *ScheduleTimeline) TimingFrom(instanceID string) *Timing {
	for i := range t.Timings {
		if t.Timings[i].FromID == instanceID {
			return &t.Timings[i]
		}
	}
	return nil
}
