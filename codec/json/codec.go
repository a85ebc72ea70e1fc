package json

import (
	"io"

	"github.com/goccy/go-json"
)

type MarshalJson struct{}

func (m *MarshalJson) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (m *MarshalJson) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

type EncoderJson struct {
	jsonEncoder *json.Encoder
}

func NewEncoderJson(w io.Writer) *EncoderJson {
	return &EncoderJson{
		jsonEncoder: json.NewEncoder(w),
	}
}

func (e *EncoderJson) Encode(v interface{}) error {
	return e.jsonEncoder.Encode(v)
}

// SetIndent makes every following Encode write indented output.
func (e *EncoderJson) SetIndent(prefix, indent string) {
	e.jsonEncoder.SetIndent(prefix, indent)
}

func (e *EncoderJson) Reset(w io.Writer) {
	e.jsonEncoder = json.NewEncoder(w)
}

type DecoderJson struct {
	jsonDecoder *json.Decoder
}

func NewDecoderJson(r io.Reader) *DecoderJson {
	return &DecoderJson{
		jsonDecoder: json.NewDecoder(r),
	}
}

func (d *DecoderJson) Decode(v interface{}) error {
	return d.jsonDecoder.Decode(v)
}

func (d *DecoderJson) Reset(r io.Reader) {
	d.jsonDecoder = json.NewDecoder(r)
}
