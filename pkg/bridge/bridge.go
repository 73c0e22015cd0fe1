package bridge

import (
	"log"
	"strconv"

	"github.com/librescoot/thermolink/pkg/thermolink"
)

// Redis key/field layout the bridge reads and writes under.
const (
	KeyThermostat = "thermostat"

	FieldCurrentTemperature  = "current-temperature"
	FieldHeatingSetpoint     = "heating-setpoint"
	FieldAwayHeatingSetpoint = "away-heating-setpoint"
	FieldCoolingSetpoint     = "cooling-setpoint"
	FieldAwayCoolingSetpoint = "away-cooling-setpoint"
	FieldHVACMode            = "hvac-mode"
	FieldRelativeHumidity    = "relative-humidity"
	FieldAccessoryState      = "accessory-state"
	FieldDemandResponse      = "demand-response"
	FieldAwayMode            = "away-mode"
	FieldAutoWake            = "auto-wake"
	FieldPairingState        = "pairing-state"
	FieldWifiStatus          = "wifi-status"
	FieldOTAState            = "ota-state"
	FieldOTAProgress         = "ota-progress"
	FieldWarning             = "warning"
)

// CommandChannel is the Redis pub/sub channel carrying inbound
// "field:value" commands to forward to the remote thermostat.
const CommandChannel = "thermostat:commands"

// Bridge forwards decoded Session messages into Redis, and Redis-published
// field changes back out as Session sends.
type Bridge struct {
	session *thermolink.Session
	redis   *Client
}

// New builds a Bridge over an already-started Session and Redis Client.
func New(session *thermolink.Session, redis *Client) *Bridge {
	return &Bridge{session: session, redis: redis}
}

// RunInbound blocks, receiving messages from the Session and mirroring
// each into the Redis hash plus a change notification, until Receive
// returns an error (link closed or unrecoverable).
func (b *Bridge) RunInbound() error {
	for {
		msg, err := b.session.Receive()
		if err != nil {
			return err
		}
		if err := b.publish(msg); err != nil {
			log.Printf("bridge: failed to publish %s to redis: %v", msg.Tag, err)
		}
	}
}

func (b *Bridge) publish(msg thermolink.Message) error {
	switch msg.Tag {
	case thermolink.TagCurrentTemperature:
		v, _ := msg.Int8()
		return b.redis.WriteAndPublishInt(KeyThermostat, FieldCurrentTemperature, int(v))
	case thermolink.TagHeatingSetpoint:
		v, _ := msg.Int8()
		return b.redis.WriteAndPublishInt(KeyThermostat, FieldHeatingSetpoint, int(v))
	case thermolink.TagAwayHeatingSetpoint:
		v, _ := msg.Int8()
		return b.redis.WriteAndPublishInt(KeyThermostat, FieldAwayHeatingSetpoint, int(v))
	case thermolink.TagCoolingSetpoint:
		v, _ := msg.Int8()
		return b.redis.WriteAndPublishInt(KeyThermostat, FieldCoolingSetpoint, int(v))
	case thermolink.TagAwayCoolingSetpoint:
		v, _ := msg.Int8()
		return b.redis.WriteAndPublishInt(KeyThermostat, FieldAwayCoolingSetpoint, int(v))
	case thermolink.TagHVACMode:
		v, _ := msg.Int8()
		return b.redis.WriteAndPublishInt(KeyThermostat, FieldHVACMode, int(v))
	case thermolink.TagRelativeHumidity:
		v, _ := msg.Bool()
		return b.redis.WriteAndPublishString(KeyThermostat, FieldRelativeHumidity, strconv.FormatBool(v))
	case thermolink.TagAccessoryState:
		v, _ := msg.Bool()
		return b.redis.WriteAndPublishString(KeyThermostat, FieldAccessoryState, strconv.FormatBool(v))
	case thermolink.TagDemandResponse:
		v, _ := msg.Bool()
		return b.redis.WriteAndPublishString(KeyThermostat, FieldDemandResponse, strconv.FormatBool(v))
	case thermolink.TagAwayMode:
		v, _ := msg.Bool()
		return b.redis.WriteAndPublishString(KeyThermostat, FieldAwayMode, strconv.FormatBool(v))
	case thermolink.TagAutoWake:
		v, _ := msg.Bool()
		return b.redis.WriteAndPublishString(KeyThermostat, FieldAutoWake, strconv.FormatBool(v))
	case thermolink.TagPairingState:
		v, _ := msg.Enum()
		return b.redis.WriteAndPublishInt(KeyThermostat, FieldPairingState, int(v))
	case thermolink.TagWifiStatus:
		v, _ := msg.Enum()
		return b.redis.WriteAndPublishInt(KeyThermostat, FieldWifiStatus, int(v))
	case thermolink.TagOTAStatus:
		v, _ := msg.OTAStatus()
		if err := b.redis.WriteAndPublishInt(KeyThermostat, FieldOTAState, int(v.State)); err != nil {
			return err
		}
		return b.redis.WriteAndPublishInt(KeyThermostat, FieldOTAProgress, int(v.Progress))
	case thermolink.TagWarning:
		v, _ := msg.Warning()
		return b.redis.WriteAndPublishString(KeyThermostat, FieldWarning, v.Message)
	default:
		log.Printf("bridge: no redis mapping for message tag %s, dropping", msg.Tag)
		return nil
	}
}

// RunOutbound subscribes to CommandChannel and forwards each "field:value"
// command to the Session as the matching Send call, until stop is called
// or the subscription errors out.
func (b *Bridge) RunOutbound() func() {
	messages, stop := b.redis.Subscribe(CommandChannel)
	go func() {
		for msg := range messages {
			if err := b.handleCommand(msg.Payload); err != nil {
				log.Printf("bridge: command %q failed: %v", msg.Payload, err)
			}
		}
	}()
	return stop
}

func (b *Bridge) handleCommand(payload string) error {
	field, value, ok := splitCommand(payload)
	if !ok {
		return thermolink.ErrInvalidParameter
	}

	switch field {
	case FieldHeatingSetpoint:
		v, err := strconv.ParseInt(value, 10, 8)
		if err != nil {
			return err
		}
		return b.session.SendHeatingSetpoint(int8(v))
	case FieldAwayHeatingSetpoint:
		v, err := strconv.ParseInt(value, 10, 8)
		if err != nil {
			return err
		}
		return b.session.SendAwayHeatingSetpoint(int8(v))
	case FieldCoolingSetpoint:
		v, err := strconv.ParseInt(value, 10, 8)
		if err != nil {
			return err
		}
		return b.session.SendCoolingSetpoint(int8(v))
	case FieldAwayCoolingSetpoint:
		v, err := strconv.ParseInt(value, 10, 8)
		if err != nil {
			return err
		}
		return b.session.SendAwayCoolingSetpoint(int8(v))
	case FieldHVACMode:
		v, err := strconv.ParseInt(value, 10, 8)
		if err != nil {
			return err
		}
		return b.session.SendHVACMode(int8(v))
	case FieldAwayMode:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		return b.session.SendAwayMode(v)
	case FieldAutoWake:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		return b.session.SendAutoWake(v)
	default:
		log.Printf("bridge: unhandled command field %q", field)
		return nil
	}
}

func splitCommand(payload string) (field, value string, ok bool) {
	for i := 0; i < len(payload); i++ {
		if payload[i] == ':' {
			return payload[:i], payload[i+1:], true
		}
	}
	return "", "", false
}
