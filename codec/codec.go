package codec

import (
	"fmt"
	"io"

	"github.com/TopiaNetwork/ethtx/codec/json"
	"github.com/TopiaNetwork/ethtx/codec/rlp"
)

type CodecType byte

const (
	CodecType_Unknown CodecType = iota
	CodecType_JSON
	CodecType_RLP
)

func (ct CodecType) String() string {
	switch ct {
	case CodecType_JSON:
		return "json"
	case CodecType_RLP:
		return "rlp"
	}
	return "unknown"
}

type Marshaler interface {
	Marshal(interface{}) ([]byte, error)

	Unmarshal([]byte, interface{}) error
}

type Encoder interface {
	Encode(interface{}) error
	Reset(w io.Writer)
}

// Indenter is implemented by encoders that can pretty print.
type Indenter interface {
	SetIndent(prefix, indent string)
}

type Decoder interface {
	Decode(interface{}) error
	Reset(r io.Reader)
}

func CreateMarshaler(codecType CodecType) Marshaler {
	switch codecType {
	case CodecType_JSON:
		return &json.MarshalJson{}
	case CodecType_RLP:
		return &rlp.MarshalRlp{}
	default:
		panic(fmt.Errorf("invalid codec type %d when CreateMarshaler", codecType).Error())
	}
}

func CreateEncoder(codecType CodecType, w io.Writer) Encoder {
	switch codecType {
	case CodecType_JSON:
		return json.NewEncoderJson(w)
	case CodecType_RLP:
		return rlp.NewEncoderRlp(w)
	default:
		panic(fmt.Errorf("invalid codec type %d when CreateEncoder", codecType).Error())
	}
}

func CreateDecoder(codecType CodecType, r io.Reader) Decoder {
	switch codecType {
	case CodecType_JSON:
		return json.NewDecoderJson(r)
	default:
		panic(fmt.Errorf("no stream decoder for codec type %s", codecType.String()).Error())
	}
}
