package thermolink

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Encode serializes m as a length-delimited tagged-union field, matching
// pb_encode_delimited over a nanopb oneof: a varint byte-length prefix
// followed by exactly one protobuf field (tag = int(m.Tag), wire type
// depending on the payload), optionally itself containing nested fields
// for struct-shaped payloads (otaStatus, warning, handshake).
func Encode(m Message) ([]byte, error) {
	field, err := encodeField(protowire.Number(m.Tag), m.Payload)
	if err != nil {
		return nil, err
	}
	out := protowire.AppendVarint(nil, uint64(len(field)))
	out = append(out, field...)
	return out, nil
}

// Decode parses a length-delimited tagged-union field produced by Encode.
// The varint-prefix convention means the outer framing length L (see
// frame.go) equals len(result) == varintSize(len(field)) + len(field).
func Decode(data []byte) (Message, error) {
	length, n := protowire.ConsumeVarint(data)
	if n <= 0 {
		return Message{}, newErr(CodeDecodeFailed, nil)
	}
	data = data[n:]
	if uint64(len(data)) < length {
		return Message{}, newErr(CodeDecodeFailed, nil)
	}
	data = data[:length]

	num, wireType, n := protowire.ConsumeTag(data)
	if n <= 0 {
		return Message{}, newErr(CodeDecodeFailed, nil)
	}
	data = data[n:]

	tag := Tag(num)
	payload, err := decodeField(tag, wireType, data)
	if err != nil {
		return Message{}, err
	}
	return Message{Tag: tag, Payload: payload}, nil
}

func encodeField(num protowire.Number, payload Payload) ([]byte, error) {
	switch v := payload.(type) {
	case Int8Payload:
		return appendVarintField(num, uint64(uint32(int32(v)))), nil
	case BoolPayload:
		b := uint64(0)
		if v {
			b = 1
		}
		return appendVarintField(num, b), nil
	case Uint64Payload:
		return appendVarintField(num, uint64(v)), nil
	case EnumPayload:
		return appendVarintField(num, uint64(v)), nil
	case StringPayload:
		return appendBytesField(num, []byte(v)), nil
	case OTAStatusPayload:
		return appendBytesField(num, encodeOTAStatus(v)), nil
	case WarningPayload:
		return appendBytesField(num, encodeWarning(v)), nil
	case HandshakePayload:
		return appendBytesField(num, encodeHandshake(v)), nil
	default:
		return nil, newErr(CodeEncodeFailed, nil)
	}
}

// appendVarintField encodes tag+varint in one buffer.
func appendVarintField(num protowire.Number, v uint64) []byte {
	out := protowire.AppendTag(nil, num, protowire.VarintType)
	return protowire.AppendVarint(out, v)
}

func appendBytesField(num protowire.Number, v []byte) []byte {
	out := protowire.AppendTag(nil, num, protowire.BytesType)
	return protowire.AppendBytes(out, v)
}

func decodeField(tag Tag, wireType protowire.Type, data []byte) (Payload, error) {
	switch tag {
	case TagCurrentTemperature, TagHeatingSetpoint, TagAwayHeatingSetpoint,
		TagCoolingSetpoint, TagAwayCoolingSetpoint, TagHVACMode, TagLocalUIState:
		v, n := protowire.ConsumeVarint(data)
		if n <= 0 || wireType != protowire.VarintType {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		return Int8Payload(int8(int32(uint32(v)))), nil

	case TagRelativeHumidity, TagAccessoryState, TagDemandResponse,
		TagAwayMode, TagAutoWake:
		v, n := protowire.ConsumeVarint(data)
		if n <= 0 || wireType != protowire.VarintType {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		return BoolPayload(v != 0), nil

	case TagDateAndTime:
		v, n := protowire.ConsumeVarint(data)
		if n <= 0 || wireType != protowire.VarintType {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		return Uint64Payload(v), nil

	case TagSupportPackageData, TagLoopbackTest:
		v, n := protowire.ConsumeBytes(data)
		if n <= 0 || wireType != protowire.BytesType {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		return StringPayload(v), nil

	case TagPairingState, TagWifiStatus, TagMatterStatus, TagFactoryReset:
		v, n := protowire.ConsumeVarint(data)
		if n <= 0 || wireType != protowire.VarintType {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		return EnumPayload(uint32(v)), nil

	case TagOTAStatus:
		v, n := protowire.ConsumeBytes(data)
		if n <= 0 || wireType != protowire.BytesType {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		return decodeOTAStatus(v)

	case TagWarning:
		v, n := protowire.ConsumeBytes(data)
		if n <= 0 || wireType != protowire.BytesType {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		return decodeWarning(v)

	case TagHandshake:
		v, n := protowire.ConsumeBytes(data)
		if n <= 0 || wireType != protowire.BytesType {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		return decodeHandshake(v)

	default:
		return nil, newErr(CodeUnknownMessageType, nil)
	}
}

// Sub-message field numbers, local to each embedded struct.
const (
	otaFieldState    = 1
	otaFieldProgress = 2
	otaFieldVersion  = 3

	warningFieldType    = 1
	warningFieldMessage = 2

	handshakeFieldMode     = 1
	handshakeFieldVersion  = 2
	handshakeFieldNeedsAck = 3
)

func encodeOTAStatus(v OTAStatusPayload) []byte {
	var out []byte
	out = protowire.AppendTag(out, otaFieldState, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(v.State))
	out = protowire.AppendTag(out, otaFieldProgress, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(v.Progress))
	out = protowire.AppendTag(out, otaFieldVersion, protowire.BytesType)
	out = protowire.AppendBytes(out, []byte(v.Version))
	return out
}

func decodeOTAStatus(data []byte) (Payload, error) {
	var out OTAStatusPayload
	for len(data) > 0 {
		num, wireType, n := protowire.ConsumeTag(data)
		if n <= 0 {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		data = data[n:]
		switch num {
		case otaFieldState:
			v, n := protowire.ConsumeVarint(data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			out.State = OTAState(v)
			data = data[n:]
		case otaFieldProgress:
			v, n := protowire.ConsumeVarint(data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			out.Progress = uint8(v)
			data = data[n:]
		case otaFieldVersion:
			v, n := protowire.ConsumeBytes(data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			out.Version = string(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, wireType, data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			data = data[n:]
		}
	}
	return out, nil
}

func encodeWarning(v WarningPayload) []byte {
	var out []byte
	out = protowire.AppendTag(out, warningFieldType, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(v.Type))
	out = protowire.AppendTag(out, warningFieldMessage, protowire.BytesType)
	out = protowire.AppendBytes(out, []byte(v.Message))
	return out
}

func decodeWarning(data []byte) (Payload, error) {
	var out WarningPayload
	for len(data) > 0 {
		num, wireType, n := protowire.ConsumeTag(data)
		if n <= 0 {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		data = data[n:]
		switch num {
		case warningFieldType:
			v, n := protowire.ConsumeVarint(data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			out.Type = WarningType(v)
			data = data[n:]
		case warningFieldMessage:
			v, n := protowire.ConsumeBytes(data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			out.Message = string(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, wireType, data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			data = data[n:]
		}
	}
	return out, nil
}

func encodeHandshake(v HandshakePayload) []byte {
	var out []byte
	out = protowire.AppendTag(out, handshakeFieldMode, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(v.Mode))
	out = protowire.AppendTag(out, handshakeFieldVersion, protowire.BytesType)
	out = protowire.AppendBytes(out, []byte(v.Version))
	out = protowire.AppendTag(out, handshakeFieldNeedsAck, protowire.VarintType)
	ack := uint64(0)
	if v.NeedsAck {
		ack = 1
	}
	out = protowire.AppendVarint(out, ack)
	return out
}

func decodeHandshake(data []byte) (Payload, error) {
	var out HandshakePayload
	for len(data) > 0 {
		num, wireType, n := protowire.ConsumeTag(data)
		if n <= 0 {
			return nil, newErr(CodeDecodeFailed, nil)
		}
		data = data[n:]
		switch num {
		case handshakeFieldMode:
			v, n := protowire.ConsumeVarint(data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			out.Mode = OperatingMode(v)
			data = data[n:]
		case handshakeFieldVersion:
			v, n := protowire.ConsumeBytes(data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			out.Version = string(v)
			data = data[n:]
		case handshakeFieldNeedsAck:
			v, n := protowire.ConsumeVarint(data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			out.NeedsAck = v != 0
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, wireType, data)
			if n <= 0 {
				return nil, newErr(CodeDecodeFailed, nil)
			}
			data = data[n:]
		}
	}
	return out, nil
}
