package birthday

// Person is one configured birthday. Everything except the roster entry's
// next occurrence is fixed for the life of the process.
type Person struct {
	Name   string
	Date   RecurringDate
	Notify *NotifyConfig // nil when the person has no notification routing
}

// NotifyConfig routes a person's notifications to target groups.
type NotifyConfig struct {
	MentionID    string   // platform user id used for mentions, optional
	Groups       []string // target group ids
	PingEveryone *bool    // overrides the group's default broadcast flag when set
}

// MentionID returns the person's mention id, or "" if there is none.
func (p Person) MentionID() string {
	if p.Notify == nil {
		return ""
	}
	return p.Notify.MentionID
}

// Groups returns the target groups the person belongs to.
func (p Person) Groups() []string {
	if p.Notify == nil {
		return nil
	}
	return p.Notify.Groups
}

// ForcesBroadcast reports whether the person's override asks for a broadcast.
func (p Person) ForcesBroadcast() bool {
	return p.Notify != nil && p.Notify.PingEveryone != nil && *p.Notify.PingEveryone
}
