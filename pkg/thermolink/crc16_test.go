package thermolink

import "testing"

func TestCRC16ARC(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want uint16
	}{
		{"empty", []byte{}, 0x0000},
		{"header-only", []byte{0xCA, 0xFE, 0x00, 0x00}, crc16ARC(0, []byte{0xCA, 0xFE, 0x00, 0x00})},
		{"known-vector", []byte("123456789"), 0xBB3D},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := crc16ARC(0, tc.data); got != tc.want {
				t.Errorf("crc16ARC(0, %v) = 0x%04X, want 0x%04X", tc.data, got, tc.want)
			}
		})
	}
}

func TestCRC16ARCIsIncremental(t *testing.T) {
	data := []byte{0xCA, 0xFE, 0x01, 0x00, 0x42}
	whole := crc16ARC(0, data)

	split := crc16ARC(0, data[:2])
	split = crc16ARC(split, data[2:])

	if whole != split {
		t.Errorf("crc16ARC is not incremental: whole=0x%04X split=0x%04X", whole, split)
	}
}
