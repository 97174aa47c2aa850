// Package domain contains core concepts of the messaging engine.
// This file defines Participant entities and their role-driven behavior.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"log/slog"
)

type Role int

const (
	RoleCommon Role = iota
	RoleModerator
	RoleMuted
	RoleBot
	RoleNetwork
)

func (r Role) String() string {
	switch r {
	case RoleCommon:
		return "common"
	case RoleModerator:
		return "moderator"
	case RoleMuted:
		return "muted"
	case RoleBot:
		return "bot"
	case RoleNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Capabilities is what a role allows a participant to do inside a room.
type Capabilities struct {
	CanSend    bool
	CanReceive bool
}

func (r Role) Capabilities() Capabilities {
	switch r {
	case RoleCommon, RoleModerator, RoleBot:
		return Capabilities{CanSend: true, CanReceive: true}
	case RoleMuted, RoleNetwork:
		return Capabilities{CanSend: false, CanReceive: true}
	default:
		return Capabilities{}
	}
}

// DeliverFunc pushes a rendered message to whoever owns participantID.
type DeliverFunc func(participantID, text string)

// Participant behavior is composed from its role and an optional sink:
// local roles hand rendered text to an inbox, the network role to the host callback.
type Participant struct {
	id       string
	nickname string
	role     Role
	deliver  DeliverFunc
	log      *slog.Logger
}

type ParticipantOption func(*Participant)

// WithInbox routes received messages of a local participant to fn.
func WithInbox(fn DeliverFunc) ParticipantOption {
	return func(p *Participant) { p.deliver = fn }
}

func WithLogger(log *slog.Logger) ParticipantOption {
	return func(p *Participant) { p.log = log }
}

func NewParticipant(id, nickname string, role Role, opts ...ParticipantOption) *Participant {
	p := &Participant{id: id, nickname: nickname, role: role, log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewCommonParticipant(id, nickname string, opts ...ParticipantOption) *Participant {
	return NewParticipant(id, nickname, RoleCommon, opts...)
}

func NewModerator(id, nickname string, opts ...ParticipantOption) *Participant {
	return NewParticipant(id, nickname, RoleModerator, opts...)
}

func NewMutedParticipant(id, nickname string, opts ...ParticipantOption) *Participant {
	return NewParticipant(id, nickname, RoleMuted, opts...)
}

func NewBotParticipant(id, nickname string, opts ...ParticipantOption) *Participant {
	return NewParticipant(id, nickname, RoleBot, opts...)
}

// NewNetworkParticipant binds the participant to the host delivery path.
func NewNetworkParticipant(id, nickname string, deliver DeliverFunc, opts ...ParticipantOption) *Participant {
	return NewParticipant(id, nickname, RoleNetwork, append(opts, WithInbox(deliver))...)
}

func (p *Participant) ID() string                 { return p.id }
func (p *Participant) Nickname() string           { return p.nickname }
func (p *Participant) Role() Role                 { return p.role }
func (p *Participant) Capabilities() Capabilities { return p.role.Capabilities() }

// SendMessage reports whether msg may go on to a room.
// Muted and network participants never speak from this side.
func (p *Participant) SendMessage(msg Message) bool {
	switch p.role {
	case RoleMuted:
		p.log.Info("Muted participant cannot send",
			"participant_id", p.id, "nickname", p.nickname)
		return false
	case RoleNetwork:
		p.log.Debug("Network participant send ignored",
			"participant_id", p.id, "nickname", p.nickname)
		return false
	default:
		p.log.Debug("Sending message",
			"role", p.role.String(),
			"nickname", p.nickname,
			"type", msg.Type().String(),
			"content", msg.Render())
		return true
	}
}

func (p *Participant) ReceiveMessage(msg Message) {
	text := msg.Render()
	if p.deliver == nil {
		if p.role == RoleNetwork {
			p.log.Warn("No delivery callback registered, message dropped",
				"participant_id", p.id)
			return
		}
		p.log.Info("Message received",
			"role", p.role.String(), "nickname", p.nickname, "content", text)
		return
	}
	p.deliver(p.id, text)
}

// MuteUser is advisory: the target keeps its role and can still send.
func (p *Participant) MuteUser(target *Participant) {
	if p.role != RoleModerator || target == nil {
		return
	}
	p.log.Info("Moderator muted participant",
		"moderator", p.nickname, "target", target.nickname)
}

// KickUser is advisory: the target stays in every room it joined.
func (p *Participant) KickUser(target *Participant) {
	if p.role != RoleModerator || target == nil {
		return
	}
	p.log.Info("Moderator kicked participant",
		"moderator", p.nickname, "target", target.nickname)
}
