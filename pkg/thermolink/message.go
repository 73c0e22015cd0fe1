package thermolink

// Tag is the stable wire identifier selecting a Message's active variant;
// it doubles as the protobuf field number the variant is encoded under.
//
// Tags 2-15 match the historical numbering carried over from the original
// C header (secil.h) for the variants present there; tag 1 is retired
// (the original numbering already started at 2, for a variant dropped
// before that header was captured). Tags 16-23 are new variants that only
// ever existed in the nanopb-generated descriptor, not in any retrieved
// header, and are numbered contiguously here.
type Tag uint8

const (
	TagCurrentTemperature   Tag = 2
	TagHeatingSetpoint      Tag = 3
	TagAwayHeatingSetpoint  Tag = 4
	TagCoolingSetpoint      Tag = 5
	TagAwayCoolingSetpoint  Tag = 6
	TagHVACMode             Tag = 7
	TagRelativeHumidity     Tag = 8
	TagAccessoryState       Tag = 9
	TagSupportPackageData   Tag = 10
	TagDemandResponse       Tag = 11
	TagAwayMode             Tag = 12
	TagAutoWake             Tag = 13
	TagLocalUIState         Tag = 14
	TagDateAndTime          Tag = 15
	TagPairingState         Tag = 16
	TagWifiStatus           Tag = 17
	TagMatterStatus         Tag = 18
	TagFactoryReset         Tag = 19
	TagOTAStatus            Tag = 20
	TagWarning              Tag = 21
	TagLoopbackTest         Tag = 22
	TagHandshake            Tag = 23
)

func (t Tag) String() string {
	switch t {
	case TagCurrentTemperature:
		return "currentTemperature"
	case TagHeatingSetpoint:
		return "heatingSetpoint"
	case TagAwayHeatingSetpoint:
		return "awayHeatingSetpoint"
	case TagCoolingSetpoint:
		return "coolingSetpoint"
	case TagAwayCoolingSetpoint:
		return "awayCoolingSetpoint"
	case TagHVACMode:
		return "hvacMode"
	case TagRelativeHumidity:
		return "relativeHumidity"
	case TagAccessoryState:
		return "accessoryState"
	case TagSupportPackageData:
		return "supportPackageData"
	case TagDemandResponse:
		return "demandResponse"
	case TagAwayMode:
		return "awayMode"
	case TagAutoWake:
		return "autoWake"
	case TagLocalUIState:
		return "localUiState"
	case TagDateAndTime:
		return "dateAndTime"
	case TagPairingState:
		return "pairingState"
	case TagWifiStatus:
		return "wifiStatus"
	case TagMatterStatus:
		return "matterStatus"
	case TagFactoryReset:
		return "factoryReset"
	case TagOTAStatus:
		return "otaStatus"
	case TagWarning:
		return "warning"
	case TagLoopbackTest:
		return "loopbackTest"
	case TagHandshake:
		return "handshake"
	default:
		return "unknown"
	}
}

// Capacity limits (fixed-capacity buffers in the original C library; here
// enforced as string-length checks at the send-side API boundary).
const (
	maxSupportPackageData = 255
	maxOTAVersion          = 31
	maxWarningMessage      = 127
	maxHandshakeVersion    = 31
	maxLoopbackData        = 255
)

// OperatingMode is the session role: which end of the link this instance
// plays. Exactly one CLIENT and one SERVER per link after a successful
// startup.
type OperatingMode uint8

const (
	ModeUninitialized OperatingMode = 0
	ModeClient        OperatingMode = 1
	ModeServer        OperatingMode = 2
)

func (m OperatingMode) String() string {
	switch m {
	case ModeClient:
		return "client"
	case ModeServer:
		return "server"
	default:
		return "uninitialized"
	}
}

// complement returns the role the peer must hold for a link to be valid.
func (m OperatingMode) complement() OperatingMode {
	switch m {
	case ModeClient:
		return ModeServer
	case ModeServer:
		return ModeClient
	default:
		return ModeUninitialized
	}
}

// PairingState, SystemStatus, ResetState, OTAState and WarningType are
// small enums whose exact values are schema-defined and out of scope for
// this core (per spec glossary); the values below are the illustrative
// set thermolink ships with.
type PairingState uint32

const (
	PairingUnpaired PairingState = 0
	PairingPairing  PairingState = 1
	PairingPaired   PairingState = 2
	PairingFailed   PairingState = 3
)

type SystemStatus uint32

const (
	SystemDown       SystemStatus = 0
	SystemConnecting SystemStatus = 1
	SystemUp         SystemStatus = 2
)

type ResetState uint32

const (
	ResetIdle       ResetState = 0
	ResetRequested  ResetState = 1
	ResetInProgress ResetState = 2
	ResetComplete   ResetState = 3
)

type OTAState uint32

const (
	OTAIdle         OTAState = 0
	OTADownloading  OTAState = 1
	OTAVerifying    OTAState = 2
	OTAApplying     OTAState = 3
	OTAComplete     OTAState = 4
	OTAFailed       OTAState = 5
)

type WarningType uint32

const (
	WarningGeneral       WarningType = 0
	WarningSensor        WarningType = 1
	WarningCommunication WarningType = 2
	WarningPower         WarningType = 3
)

// Payload is implemented by every concrete message body type. The Tag on
// the enclosing Message says which payload type is valid; Payload itself
// carries no tag (mirrors a protobuf oneof: the field number lives on the
// wrapper, not the value).
type Payload interface {
	isPayload()
}

// Int8Payload is the body of every signed-8-bit variant (currentTemperature,
// heatingSetpoint, awayHeatingSetpoint, coolingSetpoint, awayCoolingSetpoint,
// hvacMode, localUiState).
type Int8Payload int8

func (Int8Payload) isPayload() {}

// BoolPayload is the body of every boolean variant (relativeHumidity,
// accessoryState, demandResponse, awayMode, autoWake).
type BoolPayload bool

func (BoolPayload) isPayload() {}

// Uint64Payload is the body of dateAndTime (Unix seconds).
type Uint64Payload uint64

func (Uint64Payload) isPayload() {}

// StringPayload is the body of supportPackageData and loopbackTest.
type StringPayload string

func (StringPayload) isPayload() {}

// EnumPayload is the body of pairingState, wifiStatus, matterStatus and
// factoryReset.
type EnumPayload uint32

func (EnumPayload) isPayload() {}

// OTAStatusPayload is the body of otaStatus.
type OTAStatusPayload struct {
	State    OTAState
	Progress uint8 // 0..100, clamped on send
	Version  string
}

func (OTAStatusPayload) isPayload() {}

// WarningPayload is the body of warning.
type WarningPayload struct {
	Type    WarningType
	Message string
}

func (WarningPayload) isPayload() {}

// HandshakePayload is the body of handshake.
type HandshakePayload struct {
	Mode     OperatingMode
	Version  string
	NeedsAck bool
}

func (HandshakePayload) isPayload() {}

// Message is a tagged union: exactly one of its Payload's concrete types is
// meaningful, selected by Tag.
type Message struct {
	Tag     Tag
	Payload Payload
}

// Int8 returns the Int8Payload value and true if the message carries one.
func (m Message) Int8() (int8, bool) {
	v, ok := m.Payload.(Int8Payload)
	return int8(v), ok
}

// Bool returns the BoolPayload value and true if the message carries one.
func (m Message) Bool() (bool, bool) {
	v, ok := m.Payload.(BoolPayload)
	return bool(v), ok
}

// Uint64 returns the Uint64Payload value and true if the message carries one.
func (m Message) Uint64() (uint64, bool) {
	v, ok := m.Payload.(Uint64Payload)
	return uint64(v), ok
}

// Str returns the StringPayload value and true if the message carries one.
// (Not named String: Message deliberately does not implement fmt.Stringer,
// since its meaningful representation depends on which payload is active.)
func (m Message) Str() (string, bool) {
	v, ok := m.Payload.(StringPayload)
	return string(v), ok
}

// Enum returns the EnumPayload value and true if the message carries one.
func (m Message) Enum() (uint32, bool) {
	v, ok := m.Payload.(EnumPayload)
	return uint32(v), ok
}

// OTAStatus returns the OTAStatusPayload and true if the message carries one.
func (m Message) OTAStatus() (OTAStatusPayload, bool) {
	v, ok := m.Payload.(OTAStatusPayload)
	return v, ok
}

// Warning returns the WarningPayload and true if the message carries one.
func (m Message) Warning() (WarningPayload, bool) {
	v, ok := m.Payload.(WarningPayload)
	return v, ok
}

// Handshake returns the HandshakePayload and true if the message carries one.
func (m Message) Handshake() (HandshakePayload, bool) {
	v, ok := m.Payload.(HandshakePayload)
	return v, ok
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
