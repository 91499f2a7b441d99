package clickpb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// This file hand-rolls Marshal/Unmarshal/Size for the messages in
// messages.go directly against protowire's varint and length-delimited
// primitives, in the style of vtprotobuf-generated code: no reflection,
// no descriptor registration, one function per message. protoc is not
// available in this build environment, so the wire codec is written by
// hand instead of generated from a .proto file; the field numbers and
// wire types below match spec.md §6 byte-for-byte.

// SizeVT returns the encoded size of m in bytes.
func (m *ClickRequest) SizeVT() int {
	if m == nil {
		return 0
	}
	var n int
	if m.TileId != 0 {
		n += protowire.SizeTag(1) + protowire.SizeVarint(uint64(int64(m.TileId)))
	}
	if len(m.CountryId) > 0 {
		n += protowire.SizeTag(2) + protowire.SizeBytes(len(m.CountryId))
	}
	return n
}

// MarshalVT encodes m to a freshly allocated buffer.
func (m *ClickRequest) MarshalVT() ([]byte, error) {
	return m.MarshalToVT(make([]byte, 0, m.SizeVT()))
}

// MarshalToVT appends the encoding of m to dst and returns the result.
func (m *ClickRequest) MarshalToVT(dst []byte) ([]byte, error) {
	if m == nil {
		return dst, nil
	}
	if m.TileId != 0 {
		dst = protowire.AppendTag(dst, 1, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(int64(m.TileId)))
	}
	if len(m.CountryId) > 0 {
		dst = protowire.AppendTag(dst, 2, protowire.BytesType)
		dst = protowire.AppendString(dst, m.CountryId)
	}
	return dst, nil
}

// UnmarshalVT decodes src into m, overwriting its fields.
func (m *ClickRequest) UnmarshalVT(src []byte) error {
	*m = ClickRequest{}
	for len(src) > 0 {
		num, typ, n := protowire.ConsumeTag(src)
		if n < 0 {
			return protowire.ParseError(n)
		}
		src = src[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.TileId = int32(int64(v))
			src = src[n:]
		case 2:
			v, n := protowire.ConsumeString(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CountryId = v
			src = src[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			src = src[n:]
		}
	}
	return nil
}

func (m *ClickResponse) SizeVT() int {
	if m == nil {
		return 0
	}
	var n int
	if m.TimestampNs != 0 {
		n += protowire.SizeTag(1) + protowire.SizeVarint(m.TimestampNs)
	}
	if len(m.ClickId) > 0 {
		n += protowire.SizeTag(2) + protowire.SizeBytes(len(m.ClickId))
	}
	return n
}

func (m *ClickResponse) MarshalVT() ([]byte, error) {
	return m.MarshalToVT(make([]byte, 0, m.SizeVT()))
}

func (m *ClickResponse) MarshalToVT(dst []byte) ([]byte, error) {
	if m == nil {
		return dst, nil
	}
	if m.TimestampNs != 0 {
		dst = protowire.AppendTag(dst, 1, protowire.VarintType)
		dst = protowire.AppendVarint(dst, m.TimestampNs)
	}
	if len(m.ClickId) > 0 {
		dst = protowire.AppendTag(dst, 2, protowire.BytesType)
		dst = protowire.AppendString(dst, m.ClickId)
	}
	return dst, nil
}

func (m *ClickResponse) UnmarshalVT(src []byte) error {
	*m = ClickResponse{}
	for len(src) > 0 {
		num, typ, n := protowire.ConsumeTag(src)
		if n < 0 {
			return protowire.ParseError(n)
		}
		src = src[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.TimestampNs = v
			src = src[n:]
		case 2:
			v, n := protowire.ConsumeString(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ClickId = v
			src = src[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			src = src[n:]
		}
	}
	return nil
}

func (m *Click) SizeVT() int {
	if m == nil {
		return 0
	}
	var n int
	if m.TileId != 0 {
		n += protowire.SizeTag(1) + protowire.SizeVarint(uint64(int64(m.TileId)))
	}
	if len(m.CountryId) > 0 {
		n += protowire.SizeTag(2) + protowire.SizeBytes(len(m.CountryId))
	}
	if m.TimestampNs != 0 {
		n += protowire.SizeTag(3) + protowire.SizeVarint(m.TimestampNs)
	}
	if len(m.ClickId) > 0 {
		n += protowire.SizeTag(4) + protowire.SizeBytes(len(m.ClickId))
	}
	return n
}

func (m *Click) MarshalVT() ([]byte, error) {
	return m.MarshalToVT(make([]byte, 0, m.SizeVT()))
}

func (m *Click) MarshalToVT(dst []byte) ([]byte, error) {
	if m == nil {
		return dst, nil
	}
	if m.TileId != 0 {
		dst = protowire.AppendTag(dst, 1, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(int64(m.TileId)))
	}
	if len(m.CountryId) > 0 {
		dst = protowire.AppendTag(dst, 2, protowire.BytesType)
		dst = protowire.AppendString(dst, m.CountryId)
	}
	if m.TimestampNs != 0 {
		dst = protowire.AppendTag(dst, 3, protowire.VarintType)
		dst = protowire.AppendVarint(dst, m.TimestampNs)
	}
	if len(m.ClickId) > 0 {
		dst = protowire.AppendTag(dst, 4, protowire.BytesType)
		dst = protowire.AppendString(dst, m.ClickId)
	}
	return dst, nil
}

func (m *Click) UnmarshalVT(src []byte) error {
	*m = Click{}
	for len(src) > 0 {
		num, typ, n := protowire.ConsumeTag(src)
		if n < 0 {
			return protowire.ParseError(n)
		}
		src = src[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.TileId = int32(int64(v))
			src = src[n:]
		case 2:
			v, n := protowire.ConsumeString(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CountryId = v
			src = src[n:]
		case 3:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.TimestampNs = v
			src = src[n:]
		case 4:
			v, n := protowire.ConsumeString(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ClickId = v
			src = src[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			src = src[n:]
		}
	}
	return nil
}

func (m *BatchRequest) SizeVT() int {
	if m == nil {
		return 0
	}
	var n int
	if m.StartTileId != 0 {
		n += protowire.SizeTag(1) + protowire.SizeVarint(uint64(int64(m.StartTileId)))
	}
	if m.EndTileId != 0 {
		n += protowire.SizeTag(2) + protowire.SizeVarint(uint64(int64(m.EndTileId)))
	}
	return n
}

func (m *BatchRequest) MarshalVT() ([]byte, error) {
	return m.MarshalToVT(make([]byte, 0, m.SizeVT()))
}

func (m *BatchRequest) MarshalToVT(dst []byte) ([]byte, error) {
	if m == nil {
		return dst, nil
	}
	if m.StartTileId != 0 {
		dst = protowire.AppendTag(dst, 1, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(int64(m.StartTileId)))
	}
	if m.EndTileId != 0 {
		dst = protowire.AppendTag(dst, 2, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(int64(m.EndTileId)))
	}
	return dst, nil
}

func (m *BatchRequest) UnmarshalVT(src []byte) error {
	*m = BatchRequest{}
	for len(src) > 0 {
		num, typ, n := protowire.ConsumeTag(src)
		if n < 0 {
			return protowire.ParseError(n)
		}
		src = src[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.StartTileId = int32(int64(v))
			src = src[n:]
		case 2:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.EndTileId = int32(int64(v))
			src = src[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			src = src[n:]
		}
	}
	return nil
}

func (m *Ownership) SizeVT() int {
	if m == nil {
		return 0
	}
	var n int
	if m.TileId != 0 {
		n += protowire.SizeTag(1) + protowire.SizeVarint(uint64(m.TileId))
	}
	if len(m.CountryId) > 0 {
		n += protowire.SizeTag(2) + protowire.SizeBytes(len(m.CountryId))
	}
	if m.TimestampNs != 0 {
		n += protowire.SizeTag(3) + protowire.SizeVarint(m.TimestampNs)
	}
	return n
}

func (m *Ownership) MarshalVT() ([]byte, error) {
	return m.MarshalToVT(make([]byte, 0, m.SizeVT()))
}

func (m *Ownership) MarshalToVT(dst []byte) ([]byte, error) {
	if m == nil {
		return dst, nil
	}
	if m.TileId != 0 {
		dst = protowire.AppendTag(dst, 1, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(m.TileId))
	}
	if len(m.CountryId) > 0 {
		dst = protowire.AppendTag(dst, 2, protowire.BytesType)
		dst = protowire.AppendString(dst, m.CountryId)
	}
	if m.TimestampNs != 0 {
		dst = protowire.AppendTag(dst, 3, protowire.VarintType)
		dst = protowire.AppendVarint(dst, m.TimestampNs)
	}
	return dst, nil
}

func (m *Ownership) UnmarshalVT(src []byte) error {
	*m = Ownership{}
	for len(src) > 0 {
		num, typ, n := protowire.ConsumeTag(src)
		if n < 0 {
			return protowire.ParseError(n)
		}
		src = src[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.TileId = uint32(v)
			src = src[n:]
		case 2:
			v, n := protowire.ConsumeString(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CountryId = v
			src = src[n:]
		case 3:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.TimestampNs = v
			src = src[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			src = src[n:]
		}
	}
	return nil
}

func (m *OwnershipState) SizeVT() int {
	if m == nil {
		return 0
	}
	var n int
	for _, o := range m.Ownerships {
		l := o.SizeVT()
		n += protowire.SizeTag(1) + protowire.SizeBytes(l)
	}
	return n
}

func (m *OwnershipState) MarshalVT() ([]byte, error) {
	return m.MarshalToVT(make([]byte, 0, m.SizeVT()))
}

func (m *OwnershipState) MarshalToVT(dst []byte) ([]byte, error) {
	if m == nil {
		return dst, nil
	}
	for _, o := range m.Ownerships {
		dst = protowire.AppendTag(dst, 1, protowire.BytesType)
		sub, err := o.MarshalVT()
		if err != nil {
			return nil, err
		}
		dst = protowire.AppendBytes(dst, sub)
	}
	return dst, nil
}

func (m *OwnershipState) UnmarshalVT(src []byte) error {
	*m = OwnershipState{}
	for len(src) > 0 {
		num, typ, n := protowire.ConsumeTag(src)
		if n < 0 {
			return protowire.ParseError(n)
		}
		src = src[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			o := &Ownership{}
			if err := o.UnmarshalVT(v); err != nil {
				return fmt.Errorf("clickpb: OwnershipState.ownerships: %w", err)
			}
			m.Ownerships = append(m.Ownerships, o)
			src = src[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			src = src[n:]
		}
	}
	return nil
}

func (m *UpdateNotification) SizeVT() int {
	if m == nil {
		return 0
	}
	var n int
	if m.TileId != 0 {
		n += protowire.SizeTag(1) + protowire.SizeVarint(uint64(int64(m.TileId)))
	}
	if len(m.CountryId) > 0 {
		n += protowire.SizeTag(2) + protowire.SizeBytes(len(m.CountryId))
	}
	if len(m.PreviousCountryId) > 0 {
		n += protowire.SizeTag(3) + protowire.SizeBytes(len(m.PreviousCountryId))
	}
	return n
}

func (m *UpdateNotification) MarshalVT() ([]byte, error) {
	return m.MarshalToVT(make([]byte, 0, m.SizeVT()))
}

func (m *UpdateNotification) MarshalToVT(dst []byte) ([]byte, error) {
	if m == nil {
		return dst, nil
	}
	if m.TileId != 0 {
		dst = protowire.AppendTag(dst, 1, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(int64(m.TileId)))
	}
	if len(m.CountryId) > 0 {
		dst = protowire.AppendTag(dst, 2, protowire.BytesType)
		dst = protowire.AppendString(dst, m.CountryId)
	}
	if len(m.PreviousCountryId) > 0 {
		dst = protowire.AppendTag(dst, 3, protowire.BytesType)
		dst = protowire.AppendString(dst, m.PreviousCountryId)
	}
	return dst, nil
}

func (m *UpdateNotification) UnmarshalVT(src []byte) error {
	*m = UpdateNotification{}
	for len(src) > 0 {
		num, typ, n := protowire.ConsumeTag(src)
		if n < 0 {
			return protowire.ParseError(n)
		}
		src = src[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.TileId = int32(int64(v))
			src = src[n:]
		case 2:
			v, n := protowire.ConsumeString(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CountryId = v
			src = src[n:]
		case 3:
			v, n := protowire.ConsumeString(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.PreviousCountryId = v
			src = src[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			src = src[n:]
		}
	}
	return nil
}

func (m *LeaderboardEntry) SizeVT() int {
	if m == nil {
		return 0
	}
	var n int
	if len(m.CountryId) > 0 {
		n += protowire.SizeTag(1) + protowire.SizeBytes(len(m.CountryId))
	}
	if m.Score != 0 {
		n += protowire.SizeTag(2) + protowire.SizeVarint(uint64(m.Score))
	}
	return n
}

func (m *LeaderboardEntry) MarshalVT() ([]byte, error) {
	return m.MarshalToVT(make([]byte, 0, m.SizeVT()))
}

func (m *LeaderboardEntry) MarshalToVT(dst []byte) ([]byte, error) {
	if m == nil {
		return dst, nil
	}
	if len(m.CountryId) > 0 {
		dst = protowire.AppendTag(dst, 1, protowire.BytesType)
		dst = protowire.AppendString(dst, m.CountryId)
	}
	if m.Score != 0 {
		dst = protowire.AppendTag(dst, 2, protowire.VarintType)
		dst = protowire.AppendVarint(dst, uint64(m.Score))
	}
	return dst, nil
}

func (m *LeaderboardEntry) UnmarshalVT(src []byte) error {
	*m = LeaderboardEntry{}
	for len(src) > 0 {
		num, typ, n := protowire.ConsumeTag(src)
		if n < 0 {
			return protowire.ParseError(n)
		}
		src = src[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeString(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CountryId = v
			src = src[n:]
		case 2:
			v, n := protowire.ConsumeVarint(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Score = uint32(v)
			src = src[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			src = src[n:]
		}
	}
	return nil
}

func (m *LeaderboardResponse) SizeVT() int {
	if m == nil {
		return 0
	}
	var n int
	for _, e := range m.Entries {
		l := e.SizeVT()
		n += protowire.SizeTag(1) + protowire.SizeBytes(l)
	}
	return n
}

func (m *LeaderboardResponse) MarshalVT() ([]byte, error) {
	return m.MarshalToVT(make([]byte, 0, m.SizeVT()))
}

func (m *LeaderboardResponse) MarshalToVT(dst []byte) ([]byte, error) {
	if m == nil {
		return dst, nil
	}
	for _, e := range m.Entries {
		dst = protowire.AppendTag(dst, 1, protowire.BytesType)
		sub, err := e.MarshalVT()
		if err != nil {
			return nil, err
		}
		dst = protowire.AppendBytes(dst, sub)
	}
	return dst, nil
}

func (m *LeaderboardResponse) UnmarshalVT(src []byte) error {
	*m = LeaderboardResponse{}
	for len(src) > 0 {
		num, typ, n := protowire.ConsumeTag(src)
		if n < 0 {
			return protowire.ParseError(n)
		}
		src = src[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			e := &LeaderboardEntry{}
			if err := e.UnmarshalVT(v); err != nil {
				return fmt.Errorf("clickpb: LeaderboardResponse.entries: %w", err)
			}
			m.Entries = append(m.Entries, e)
			src = src[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, src)
			if n < 0 {
				return protowire.ParseError(n)
			}
			src = src[n:]
		}
	}
	return nil
}
