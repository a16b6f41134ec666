package usdm

// Timing type codes. The upstream controlled terminology assigns coded
// concepts to these; only the decode matters here.
const (
	TimingAnchor = "ANCHOR"
	TimingBefore = "BEFORE"
	TimingAfter  = "AFTER"
)

// Code is a controlled-terminology concept reference.
type Code struct {
	ID     string `json:"id" yaml:"id"`
	Code   string `json:"code" yaml:"code"`
	System string `json:"codeSystem,omitempty" yaml:"codeSystem,omitempty"`
	Decode string `json:"decode" yaml:"decode"`
}

// Study is the root of a loaded study definition.
type Study struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Versions []StudyVersion `json:"versions,omitempty" yaml:"versions,omitempty"`
}

// StudyVersion groups the study designs of one protocol version.
type StudyVersion struct {
	ID           string        `json:"id" yaml:"id"`
	VersionID    string        `json:"versionIdentifier,omitempty" yaml:"versionIdentifier,omitempty"`
	StudyDesigns []StudyDesign `json:"studyDesigns,omitempty" yaml:"studyDesigns,omitempty"`
}

// StudyDesign owns the activities, encounters, and schedule timelines of
// one study design arm of the model.
type StudyDesign struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Activities []Activity         `json:"activities,omitempty" yaml:"activities,omitempty"`
	Encounters []Encounter        `json:"encounters,omitempty" yaml:"encounters,omitempty"`
	Timelines  []ScheduleTimeline `json:"scheduleTimelines,omitempty" yaml:"scheduleTimelines,omitempty"`
	Epochs     []Epoch            `json:"epochs,omitempty" yaml:"epochs,omitempty"`
}

// Epoch is a named phase of the study (screening, treatment, follow-up).
type Epoch struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Activity is one plannable assessment or intervention. An Activity may
// carry its own sub-timeline, spliced into the parent walk wherever the
// activity is scheduled.
type Activity struct {
	ID         string      `json:"id" yaml:"id"`
	Label      string      `json:"label" yaml:"label"`
	ParentID   string      `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	TimelineID string      `json:"timelineId,omitempty" yaml:"timelineId,omitempty"`
	Procedures []Procedure `json:"definedProcedures,omitempty" yaml:"definedProcedures,omitempty"`
}

// Procedure is a named step performed as part of an activity.
type Procedure struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Encounter is a subject visit or contact.
type Encounter struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// ScheduleTimeline is a directed graph of scheduled instances joined by
// relative timings, with a designated entry instance and terminal exits.
type ScheduleTimeline struct {
	ID           string                      `json:"id" yaml:"id"`
	Name         string                      `json:"name" yaml:"name"`
	MainTimeline bool                        `json:"mainTimeline" yaml:"mainTimeline"`
	EntryID      string                      `json:"entryId" yaml:"entryId"`
	Activities   []ScheduledActivityInstance `json:"activityInstances,omitempty" yaml:"activityInstances,omitempty"`
	Decisions    []ScheduledDecisionInstance `json:"decisionInstances,omitempty" yaml:"decisionInstances,omitempty"`
	Timings      []Timing                    `json:"timings,omitempty" yaml:"timings,omitempty"`
	Exits        []ScheduleTimelineExit      `json:"exits,omitempty" yaml:"exits,omitempty"`
}

// ScheduledInstance is the closed union of schedulable graph nodes.
// Only ScheduledActivityInstance and ScheduledDecisionInstance implement it.
type ScheduledInstance interface {
	InstanceID() string
	scheduledInstance()
}

// ScheduledActivityInstance schedules zero or more activities at one node
// of the graph. Exactly one of DefaultConditionID and TimelineExitID should
// be set; consumers must tolerate violations.
type ScheduledActivityInstance struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name,omitempty" yaml:"name,omitempty"`
	Label              string   `json:"label" yaml:"label"`
	ActivityIDs        []string `json:"activityIds,omitempty" yaml:"activityIds,omitempty"`
	EncounterID        string   `json:"encounterId,omitempty" yaml:"encounterId,omitempty"`
	EpochID            string   `json:"epochId,omitempty" yaml:"epochId,omitempty"`
	TimelineID         string   `json:"timelineId,omitempty" yaml:"timelineId,omitempty"`
	DefaultConditionID string   `json:"defaultConditionId,omitempty" yaml:"defaultConditionId,omitempty"`
	TimelineExitID     string   `json:"timelineExitId,omitempty" yaml:"timelineExitId,omitempty"`
}

// InstanceID returns the instance identifier.
func (s *ScheduledActivityInstance) InstanceID() string { return s.ID }

func (s *ScheduledActivityInstance) scheduledInstance() {}

// ConditionAssignment pairs a free-text condition with the instance the
// walk continues to when the condition holds.
type ConditionAssignment struct {
	Condition string `json:"condition" yaml:"condition"`
	TargetID  string `json:"conditionTargetId" yaml:"conditionTargetId"`
}

// ScheduledDecisionInstance is a branching node. A single simple day-count
// condition selects between its target and the default; anything more
// complex falls through to the default.
type ScheduledDecisionInstance struct {
	ID                 string                `json:"id" yaml:"id"`
	Label              string                `json:"label,omitempty" yaml:"label,omitempty"`
	Assignments        []ConditionAssignment `json:"conditionAssignments,omitempty" yaml:"conditionAssignments,omitempty"`
	DefaultConditionID string                `json:"defaultConditionId,omitempty" yaml:"defaultConditionId,omitempty"`
}

// InstanceID returns the instance identifier.
func (s *ScheduledDecisionInstance) InstanceID() string { return s.ID }

func (s *ScheduledDecisionInstance) scheduledInstance() {}

// ScheduleTimelineExit terminates one branch of the graph.
type ScheduleTimelineExit struct {
	ID string `json:"id" yaml:"id"`
}

// Timing is a directed relative-timing edge. Value holds an ISO-8601
// duration; Type.Code is one of the Timing* constants after upstream
// terminology decode.
type Timing struct {
	ID             string `json:"id" yaml:"id"`
	Type           Code   `json:"type" yaml:"type"`
	Value          string `json:"value" yaml:"value"`
	RelativeToFrom Code   `json:"relativeToFrom,omitempty" yaml:"relativeToFrom,omitempty"`
	FromID         string `json:"relativeFromScheduledInstanceId" yaml:"relativeFromScheduledInstanceId"`
	ToID           string `json:"relativeToScheduledInstanceId" yaml:"relativeToScheduledInstanceId"`
}

// IsAnchor reports whether this timing fixes the chain origin.
func (t *Timing) IsAnchor() bool { return t.Type.Code == TimingAnchor }

// IsBefore reports whether this timing's duration is subtracted rather
// than added when walking toward the anchor.
func (t *Timing) IsBefore() bool { return t.Type.Code == TimingBefore }
