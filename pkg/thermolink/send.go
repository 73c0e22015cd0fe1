package thermolink

// send wraps sendRaw with the CodeSendFailed wrapping every public Send*
// method shares.
func (s *Session) send(m Message) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.sendRaw(m); err != nil {
		return newErr(CodeSendFailed, err)
	}
	return nil
}

// SendCurrentTemperature reports the measured ambient temperature.
func (s *Session) SendCurrentTemperature(v int8) error {
	return s.send(Message{Tag: TagCurrentTemperature, Payload: Int8Payload(v)})
}

// SendHeatingSetpoint reports the active heating setpoint.
func (s *Session) SendHeatingSetpoint(v int8) error {
	return s.send(Message{Tag: TagHeatingSetpoint, Payload: Int8Payload(v)})
}

// SendAwayHeatingSetpoint reports the away-mode heating setpoint.
func (s *Session) SendAwayHeatingSetpoint(v int8) error {
	return s.send(Message{Tag: TagAwayHeatingSetpoint, Payload: Int8Payload(v)})
}

// SendCoolingSetpoint reports the active cooling setpoint.
func (s *Session) SendCoolingSetpoint(v int8) error {
	return s.send(Message{Tag: TagCoolingSetpoint, Payload: Int8Payload(v)})
}

// SendAwayCoolingSetpoint reports the away-mode cooling setpoint.
func (s *Session) SendAwayCoolingSetpoint(v int8) error {
	return s.send(Message{Tag: TagAwayCoolingSetpoint, Payload: Int8Payload(v)})
}

// SendHVACMode reports the active HVAC mode (schema-defined encoding).
func (s *Session) SendHVACMode(v int8) error {
	return s.send(Message{Tag: TagHVACMode, Payload: Int8Payload(v)})
}

// SendLocalUIState reports the thermostat's local UI state (schema-defined
// encoding).
func (s *Session) SendLocalUIState(v int8) error {
	return s.send(Message{Tag: TagLocalUIState, Payload: Int8Payload(v)})
}

// SendRelativeHumidity reports whether relative humidity is above its
// configured threshold.
func (s *Session) SendRelativeHumidity(v bool) error {
	return s.send(Message{Tag: TagRelativeHumidity, Payload: BoolPayload(v)})
}

// SendAccessoryState reports whether the HVAC accessory (e.g. a humidifier)
// is active.
func (s *Session) SendAccessoryState(v bool) error {
	return s.send(Message{Tag: TagAccessoryState, Payload: BoolPayload(v)})
}

// SendDemandResponse reports whether a utility demand-response event is
// active.
func (s *Session) SendDemandResponse(v bool) error {
	return s.send(Message{Tag: TagDemandResponse, Payload: BoolPayload(v)})
}

// SendAwayMode reports whether away mode is active.
func (s *Session) SendAwayMode(v bool) error {
	return s.send(Message{Tag: TagAwayMode, Payload: BoolPayload(v)})
}

// SendAutoWake reports whether auto-wake is enabled.
func (s *Session) SendAutoWake(v bool) error {
	return s.send(Message{Tag: TagAutoWake, Payload: BoolPayload(v)})
}

// SendDateAndTime reports the current time as Unix seconds.
func (s *Session) SendDateAndTime(unixSeconds uint64) error {
	return s.send(Message{Tag: TagDateAndTime, Payload: Uint64Payload(unixSeconds)})
}

// SendSupportPackageData sends a diagnostic blob, truncated to
// maxSupportPackageData bytes.
func (s *Session) SendSupportPackageData(data string) error {
	return s.send(Message{Tag: TagSupportPackageData, Payload: StringPayload(truncate(data, maxSupportPackageData))})
}

// SendPairingState reports the device pairing state.
func (s *Session) SendPairingState(v PairingState) error {
	return s.send(Message{Tag: TagPairingState, Payload: EnumPayload(v)})
}

// SendWifiStatus reports the Wi-Fi connectivity status.
func (s *Session) SendWifiStatus(v SystemStatus) error {
	return s.send(Message{Tag: TagWifiStatus, Payload: EnumPayload(v)})
}

// SendMatterStatus reports the Matter fabric connectivity status.
func (s *Session) SendMatterStatus(v SystemStatus) error {
	return s.send(Message{Tag: TagMatterStatus, Payload: EnumPayload(v)})
}

// SendFactoryReset reports the factory-reset workflow state.
func (s *Session) SendFactoryReset(v ResetState) error {
	return s.send(Message{Tag: TagFactoryReset, Payload: EnumPayload(v)})
}

// SendOTAStatus reports OTA update progress. Progress is clamped to
// [0, 100] and version is truncated to maxOTAVersion bytes.
func (s *Session) SendOTAStatus(state OTAState, progress uint8, version string) error {
	if progress > 100 {
		progress = 100
	}
	return s.send(Message{
		Tag: TagOTAStatus,
		Payload: OTAStatusPayload{
			State:    state,
			Progress: progress,
			Version:  truncate(version, maxOTAVersion),
		},
	})
}

// SendWarning reports a warning condition. message is truncated to
// maxWarningMessage bytes.
func (s *Session) SendWarning(kind WarningType, message string) error {
	return s.send(Message{
		Tag: TagWarning,
		Payload: WarningPayload{
			Type:    kind,
			Message: truncate(message, maxWarningMessage),
		},
	})
}
