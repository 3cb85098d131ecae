package peer

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"lukechampine.com/frand"

	"github.com/Prior99/frabble/message"
)

var nameAdjectives = []string{
	"quick", "lazy", "brave", "quiet", "clever", "sleepy", "lucky", "grumpy",
	"shiny", "tiny", "mighty", "curious", "gentle", "wild", "witty", "bold",
}

var nameNouns = []string{
	"otter", "badger", "heron", "lynx", "moose", "falcon", "gecko", "walrus",
	"panda", "raven", "beaver", "ferret", "koala", "marmot", "newt", "puffin",
}

// RandomName picks a display name for a user who did not choose one.
func RandomName() string {
	return nameAdjectives[frand.Intn(len(nameAdjectives))] + "-" + nameNouns[frand.Intn(len(nameNouns))]
}

// NewUser creates a user with a fresh id.
func NewUser(name string) message.User {
	if name == "" {
		name = RandomName()
	}
	return message.User{ID: uuid.NewString(), Name: name}
}

type member struct {
	user      message.User
	connected bool
	lastSeen  time.Time
}

// Roster is the set of users in a session, in the order they joined.
type Roster struct {
	mu      sync.Mutex
	self    message.User
	members []*member
}

func NewRoster(self message.User) *Roster {
	r := &Roster{self: self}
	r.Add(self, time.Time{})
	return r
}

func (r *Roster) Self() message.User {
	return r.self
}

func (r *Roster) find(id string) *member {
	for _, m := range r.members {
		if m.user.ID == id {
			return m
		}
	}
	return nil
}

// Add inserts or reconnects a user. It reports whether the user was
// unknown or disconnected before.
func (r *Roster) Add(u message.User, seen time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.find(u.ID); m != nil {
		changed := !m.connected
		m.user = u
		m.connected = true
		m.lastSeen = seen
		return changed
	}
	r.members = append(r.members, &member{user: u, connected: true, lastSeen: seen})
	return true
}

// Replace sets the full list of users, as received in a Welcome.
func (r *Roster) Replace(users []message.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = r.members[:0]
	for _, u := range users {
		r.members = append(r.members, &member{user: u, connected: true})
	}
	if r.find(r.self.ID) == nil {
		r.members = append(r.members, &member{user: r.self, connected: true})
	}
}

// Touch records activity of a known user. It reports whether the user
// had been considered disconnected.
func (r *Roster) Touch(id string, seen time.Time) (known, reconnected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.find(id)
	if m == nil {
		return false, false
	}
	reconnected = !m.connected
	m.connected = true
	m.lastSeen = seen
	return true, reconnected
}

// SetConnected reports whether the flag changed.
func (r *Roster) SetConnected(id string, connected bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.find(id)
	if m == nil || m.connected == connected {
		return false
	}
	m.connected = connected
	return true
}

func (r *Roster) Connected(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.find(id)
	return m != nil && m.connected
}

// Stale marks every connected user other than self whose last activity is
// older than limit as disconnected and returns their ids.
func (r *Roster) Stale(now time.Time, limit time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, m := range r.members {
		if m.user.ID == r.self.ID || !m.connected {
			continue
		}
		if now.Sub(m.lastSeen) > limit {
			m.connected = false
			ids = append(ids, m.user.ID)
		}
	}
	return ids
}

// Users returns every user, connected or not.
func (r *Roster) Users() []message.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]message.User, len(r.members))
	for i, m := range r.members {
		users[i] = m.user
	}
	return users
}

// ConnectedIDs returns the ids of connected users in join order.
func (r *Roster) ConnectedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, m := range r.members {
		if m.connected {
			ids = append(ids, m.user.ID)
		}
	}
	return ids
}

// Name returns the display name for id, or id itself if unknown.
func (r *Roster) Name(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.find(id); m != nil {
		return m.user.Name
	}
	return id
}

func (r *Roster) userByID(id string) message.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.find(id); m != nil {
		return m.user
	}
	return message.User{ID: id}
}
