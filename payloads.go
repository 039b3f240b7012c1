package censusstream

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// EventName identifies a category of in-game occurrence. It is the
// `event_name` of a service message payload and the listener name the
// payload is re-emitted under.
type EventName string

const (
	EventNamePlayerLogin           EventName = "PlayerLogin"
	EventNamePlayerLogout          EventName = "PlayerLogout"
	EventNameDeath                 EventName = "Death"
	EventNameVehicleDestroy        EventName = "VehicleDestroy"
	EventNameMetagameEvent         EventName = "MetagameEvent"
	EventNameContinentLock         EventName = "ContinentLock"
	EventNameFacilityControl       EventName = "FacilityControl"
	EventNameGainExperience        EventName = "GainExperience"
	EventNameBattleRankUp          EventName = "BattleRankUp"
	EventNameItemAdded             EventName = "ItemAdded"
	EventNameAchievementEarned     EventName = "AchievementEarned"
	EventNamePlayerFacilityCapture EventName = "PlayerFacilityCapture"
	EventNamePlayerFacilityDefend  EventName = "PlayerFacilityDefend"
	EventNameSkillAdded            EventName = "SkillAdded"
)

// EventNames lists every event name with a typed payload.
var EventNames = []EventName{
	EventNamePlayerLogin,
	EventNamePlayerLogout,
	EventNameDeath,
	EventNameVehicleDestroy,
	EventNameMetagameEvent,
	EventNameContinentLock,
	EventNameFacilityControl,
	EventNameGainExperience,
	EventNameBattleRankUp,
	EventNameItemAdded,
	EventNameAchievementEarned,
	EventNamePlayerFacilityCapture,
	EventNamePlayerFacilityDefend,
	EventNameSkillAdded,
}

// Known reports whether a typed payload exists for e.
func (e EventName) Known() bool {
	_, ok := payloadFactories[e]
	return ok
}

// Payload is the data carried by a ServiceMessage. Every field of every
// payload is a string on the wire, numbers and booleans included.
type Payload interface {
	EventName() EventName
	// Time parses the unix-seconds timestamp.
	Time() (time.Time, error)
}

// PayloadBase holds the fields common to all payloads.
type PayloadBase struct {
	Name      EventName `json:"event_name"`
	Timestamp string    `json:"timestamp"`
}

func (p *PayloadBase) EventName() EventName { return p.Name }

func (p *PayloadBase) Time() (time.Time, error) {
	secs, err := strconv.ParseInt(p.Timestamp, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", p.Timestamp, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// PlayerLoginPayload is sent when a character logs in.
type PlayerLoginPayload struct {
	PayloadBase
	CharacterID string `json:"character_id"`
	WorldID     string `json:"world_id"`
}

// PlayerLogoutPayload is sent when a character logs out.
type PlayerLogoutPayload struct {
	PayloadBase
	CharacterID string `json:"character_id"`
	WorldID     string `json:"world_id"`
}

// DeathPayload is sent when a character is killed.
type DeathPayload struct {
	PayloadBase
	AttackerCharacterID string `json:"attacker_character_id"`
	AttackerFireModeID  string `json:"attacker_fire_mode_id"`
	AttackerLoadoutID   string `json:"attacker_loadout_id"`
	AttackerVehicleID   string `json:"attacker_vehicle_id"`
	AttackerWeaponID    string `json:"attacker_weapon_id"`
	AttackerTeamID      string `json:"attacker_team_id"`
	CharacterID         string `json:"character_id"`
	CharacterLoadoutID  string `json:"character_loadout_id"`
	IsCritical          string `json:"is_critical"`
	IsHeadshot          string `json:"is_headshot"`
	VehicleID           string `json:"vehicle_id"`
	WorldID             string `json:"world_id"`
	ZoneID              string `json:"zone_id"`
}

// Headshot reports whether the kill was a headshot.
func (p *DeathPayload) Headshot() bool { return p.IsHeadshot == "1" }

// VehicleDestroyPayload is sent when a vehicle is destroyed.
type VehicleDestroyPayload struct {
	PayloadBase
	AttackerCharacterID string `json:"attacker_character_id"`
	AttackerLoadoutID   string `json:"attacker_loadout_id"`
	AttackerVehicleID   string `json:"attacker_vehicle_id"`
	AttackerWeaponID    string `json:"attacker_weapon_id"`
	CharacterID         string `json:"character_id"`
	FacilityID          string `json:"facility_id"`
	FactionID           string `json:"faction_id"`
	VehicleID           string `json:"vehicle_id"`
	WorldID             string `json:"world_id"`
	ZoneID              string `json:"zone_id"`
}

// MetagameEventPayload is sent when an alert or other metagame event changes state.
type MetagameEventPayload struct {
	PayloadBase
	WorldID                string `json:"world_id"`
	ExperienceBonus        string `json:"experience_bonus"`
	InstanceID             string `json:"instance_id"`
	FactionNC              string `json:"faction_nc"`
	FactionTR              string `json:"faction_tr"`
	FactionVS              string `json:"faction_vs"`
	MetagameEventID        string `json:"metagame_event_id"`
	MetagameEventState     string `json:"metagame_event_state"`
	MetagameEventStateName string `json:"metagame_event_state_name"`
	ZoneID                 string `json:"zone_id"`
}

// ContinentLockPayload is sent when a zone locks.
type ContinentLockPayload struct {
	PayloadBase
	WorldID           string `json:"world_id"`
	ZoneID            string `json:"zone_id"`
	TriggeringFaction string `json:"triggering_faction"`
	PreviousFaction   string `json:"previous_faction"`
	VSPopulation      string `json:"vs_population"`
	NCPopulation      string `json:"nc_population"`
	TRPopulation      string `json:"tr_population"`
	MetagameEventID   string `json:"metagame_event_id"`
	EventType         string `json:"event_type"`
}

// FacilityControlPayload is sent when a facility changes hands or is defended.
type FacilityControlPayload struct {
	PayloadBase
	DurationHeld string `json:"duration_held"`
	FacilityID   string `json:"facility_id"`
	NewFactionID string `json:"new_faction_id"`
	OldFactionID string `json:"old_faction_id"`
	OutfitID     string `json:"outfit_id"`
	WorldID      string `json:"world_id"`
	ZoneID       string `json:"zone_id"`
}

// GainExperiencePayload is sent for every experience tick a character earns.
type GainExperiencePayload struct {
	PayloadBase
	Amount       string `json:"amount"`
	CharacterID  string `json:"character_id"`
	ExperienceID string `json:"experience_id"`
	LoadoutID    string `json:"loadout_id"`
	OtherID      string `json:"other_id"`
	WorldID      string `json:"world_id"`
	ZoneID       string `json:"zone_id"`
}

// BattleRankUpPayload is sent when a character reaches a new battle rank.
type BattleRankUpPayload struct {
	PayloadBase
	BattleRank  string `json:"battle_rank"`
	CharacterID string `json:"character_id"`
	WorldID     string `json:"world_id"`
	ZoneID      string `json:"zone_id"`
}

// ItemAddedPayload is sent when an item is added to a character.
type ItemAddedPayload struct {
	PayloadBase
	CharacterID string `json:"character_id"`
	Context     string `json:"context"`
	ItemCount   string `json:"item_count"`
	ItemID      string `json:"item_id"`
	WorldID     string `json:"world_id"`
	ZoneID      string `json:"zone_id"`
}

// AchievementEarnedPayload is sent when a character earns an achievement.
type AchievementEarnedPayload struct {
	PayloadBase
	CharacterID   string `json:"character_id"`
	WorldID       string `json:"world_id"`
	AchievementID string `json:"achievement_id"`
	ZoneID        string `json:"zone_id"`
}

// PlayerFacilityCapturePayload is sent for each character credited with a facility capture.
type PlayerFacilityCapturePayload struct {
	PayloadBase
	CharacterID string `json:"character_id"`
	FacilityID  string `json:"facility_id"`
	OutfitID    string `json:"outfit_id"`
	WorldID     string `json:"world_id"`
	ZoneID      string `json:"zone_id"`
}

// PlayerFacilityDefendPayload is sent for each character credited with a facility defense.
type PlayerFacilityDefendPayload struct {
	PayloadBase
	CharacterID string `json:"character_id"`
	FacilityID  string `json:"facility_id"`
	OutfitID    string `json:"outfit_id"`
	WorldID     string `json:"world_id"`
	ZoneID      string `json:"zone_id"`
}

// SkillAddedPayload is sent when a character unlocks a skill.
type SkillAddedPayload struct {
	PayloadBase
	CharacterID string `json:"character_id"`
	SkillID     string `json:"skill_id"`
	WorldID     string `json:"world_id"`
	ZoneID      string `json:"zone_id"`
}

// UnknownPayload holds a payload whose event name has no typed shape.
type UnknownPayload struct {
	PayloadBase
	Fields json.RawMessage `json:"-"`
}

var payloadFactories = map[EventName]func() Payload{
	EventNamePlayerLogin:           func() Payload { return &PlayerLoginPayload{} },
	EventNamePlayerLogout:          func() Payload { return &PlayerLogoutPayload{} },
	EventNameDeath:                 func() Payload { return &DeathPayload{} },
	EventNameVehicleDestroy:        func() Payload { return &VehicleDestroyPayload{} },
	EventNameMetagameEvent:         func() Payload { return &MetagameEventPayload{} },
	EventNameContinentLock:         func() Payload { return &ContinentLockPayload{} },
	EventNameFacilityControl:       func() Payload { return &FacilityControlPayload{} },
	EventNameGainExperience:        func() Payload { return &GainExperiencePayload{} },
	EventNameBattleRankUp:          func() Payload { return &BattleRankUpPayload{} },
	EventNameItemAdded:             func() Payload { return &ItemAddedPayload{} },
	EventNameAchievementEarned:     func() Payload { return &AchievementEarnedPayload{} },
	EventNamePlayerFacilityCapture: func() Payload { return &PlayerFacilityCapturePayload{} },
	EventNamePlayerFacilityDefend:  func() Payload { return &PlayerFacilityDefendPayload{} },
	EventNameSkillAdded:            func() Payload { return &SkillAddedPayload{} },
}

// NewPayload returns an empty payload value of the shape registered for
// name, or an *UnknownPayload carrying only the name.
func NewPayload(name EventName) Payload {
	if factory, ok := payloadFactories[name]; ok {
		return factory()
	}
	return &UnknownPayload{PayloadBase: PayloadBase{Name: name}}
}
