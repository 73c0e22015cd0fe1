package thermolink

import "encoding/binary"

// Wire constants (see spec §4.3). Endianness is little for all multi-byte
// integer fields in the header/footer.
const (
	headerMagic0 = 0xCA
	headerMagic1 = 0xFE
	footerMagic0 = 0xFA
	footerMagic1 = 0xDE

	headerSize = 4 // magic(2) + body length(2)
	footerSize = 4 // crc(2) + trailing magic(2)
	headroom   = 8
)

// maxBodyLength bounds the encoded message body (varint length prefix plus
// field bytes); frames claiming a longer body are rejected before their
// payload is read.
const maxBodyLength = 512

// maxFrameLength is the largest buffer a full frame (header+body+footer)
// can occupy, plus headroom. Session keeps no scratch buffers: readFrame and
// writeFrame allocate a buffer per frame.
const maxFrameLength = headerSize + maxBodyLength + footerSize + headroom

// readNextHeader reads a 4-byte window looking for the header magic,
// shifting the window and reading one more byte on mismatch (the resync step).
// Any preceding garbage is silently discarded. Returns the 4 header bytes.
func readNextHeader(r Reader, userData any) ([4]byte, error) {
	var window [4]byte
	if !r.Read(userData, window[:], 4) {
		return window, newErr(CodeReadTimeout, nil)
	}
	for {
		if window[0] == headerMagic0 && window[1] == headerMagic1 {
			return window, nil
		}
		window[0] = window[1]
		window[1] = window[2]
		window[2] = window[3]
		if !r.Read(userData, window[3:4], 1) {
			return window, newErr(CodeReadTimeout, nil)
		}
	}
}

// readFrame reads one full frame from r, validates its CRC and trailing
// magic, and returns the raw body bytes (ready for Decode). This is the
// sole receive entry point; Receive and LoopbackTest both layer on it.
func readFrame(r Reader, userData any) ([]byte, error) {
	header, err := readNextHeader(r, userData)
	if err != nil {
		return nil, err
	}

	bodyLen := binary.LittleEndian.Uint16(header[2:4])
	if int(bodyLen) > maxBodyLength {
		return nil, newErr(CodeMessageTooLarge, nil)
	}

	rest := make([]byte, int(bodyLen)+footerSize)
	if !r.Read(userData, rest, len(rest)) {
		return nil, newErr(CodeReadTimeout, nil)
	}

	body := rest[:bodyLen]
	crcAndFooter := rest[bodyLen:]

	if crcAndFooter[2] != footerMagic0 || crcAndFooter[3] != footerMagic1 {
		return nil, newErr(CodeDecodeFailed, nil)
	}

	receivedCRC := binary.LittleEndian.Uint16(crcAndFooter[0:2])
	crcInput := make([]byte, 0, headerSize+int(bodyLen))
	crcInput = append(crcInput, header[:]...)
	crcInput = append(crcInput, body...)
	computedCRC := crc16ARC(0, crcInput)
	if receivedCRC != computedCRC {
		return nil, newErr(CodeDecodeFailed, nil)
	}

	return body, nil
}

// writeFrame builds and writes a complete frame containing body.
func writeFrame(w Writer, userData any, body []byte) error {
	if len(body) > maxBodyLength {
		return newErr(CodeMessageTooLarge, nil)
	}

	frame := make([]byte, 0, headerSize+len(body)+footerSize)
	frame = append(frame, headerMagic0, headerMagic1)
	var lenBytes [2]byte
	binary.LittleEndian.PutUint16(lenBytes[:], uint16(len(body)))
	frame = append(frame, lenBytes[:]...)
	frame = append(frame, body...)

	crc := crc16ARC(0, frame)
	var crcBytes [2]byte
	binary.LittleEndian.PutUint16(crcBytes[:], crc)
	frame = append(frame, crcBytes[:]...)
	frame = append(frame, footerMagic0, footerMagic1)

	if !w.Write(userData, frame, len(frame)) {
		return newErr(CodeWriteFailed, nil)
	}
	return nil
}
