// codec.go

package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Codec 消息编解码
type Codec interface {
	// Name 编码名，客户端通过 ?codec= 选择
	Name() string
	// FrameType websocket 帧类型
	FrameType() int
	Encode(msg Message) ([]byte, error)
	Decode(data []byte) (Message, error)
}

// NewCodec 按名称创建编解码器，空名称为 JSON
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	case "proto", "protobuf":
		return ProtoCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// JSONCodec 文本帧 JSON
type JSONCodec struct{}

// Name 编码名
func (JSONCodec) Name() string { return "json" }

// FrameType 文本帧
func (JSONCodec) FrameType() int { return websocket.TextMessage }

// Encode 编码
func (JSONCodec) Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("JSON编码失败: %w", err)
	}
	return data, nil
}

// Decode 解码，负载延迟到 Bind 时解析
func (JSONCodec) Decode(data []byte) (Message, error) {
	var raw struct {
		Type    string          `json:"type"`
		Seq     uint64          `json:"seq"`
		Time    int64           `json:"time"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("JSON解码失败: %w", err)
	}
	msg := Message{Type: raw.Type, Seq: raw.Seq, Time: raw.Time}
	if len(raw.Payload) > 0 && !bytes.Equal(raw.Payload, []byte("null")) {
		msg.bind = func(v any) error { return json.Unmarshal(raw.Payload, v) }
	}
	return msg, nil
}

// MsgpackCodec 二进制帧 MessagePack，字段名沿用 json 标签
type MsgpackCodec struct{}

// Name 编码名
func (MsgpackCodec) Name() string { return "msgpack" }

// FrameType 二进制帧
func (MsgpackCodec) FrameType() int { return websocket.BinaryMessage }

type msgpackFrame struct {
	Type    string             `msgpack:"type"`
	Seq     uint64             `msgpack:"seq,omitempty"`
	Time    int64              `msgpack:"time,omitempty"`
	Payload msgpack.RawMessage `msgpack:"payload,omitempty"`
}

// Encode 编码
func (MsgpackCodec) Encode(msg Message) ([]byte, error) {
	frame := msgpackFrame{Type: msg.Type, Seq: msg.Seq, Time: msg.Time}
	if msg.Payload != nil {
		payload, err := msgpackMarshal(msg.Payload)
		if err != nil {
			return nil, fmt.Errorf("msgpack编码负载失败: %w", err)
		}
		frame.Payload = payload
	}
	data, err := msgpack.Marshal(&frame)
	if err != nil {
		return nil, fmt.Errorf("msgpack编码失败: %w", err)
	}
	return data, nil
}

// Decode 解码
func (MsgpackCodec) Decode(data []byte) (Message, error) {
	var frame msgpackFrame
	if err := msgpack.Unmarshal(data, &frame); err != nil {
		return Message{}, fmt.Errorf("msgpack解码失败: %w", err)
	}
	msg := Message{Type: frame.Type, Seq: frame.Seq, Time: frame.Time}
	if len(frame.Payload) > 0 {
		payload := frame.Payload
		msg.bind = func(v any) error { return msgpackUnmarshal(payload, v) }
	}
	return msg, nil
}

func msgpackMarshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func msgpackUnmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// ProtoCodec 二进制帧 protobuf，消息以 google.protobuf.Struct 承载
type ProtoCodec struct{}

// Name 编码名
func (ProtoCodec) Name() string { return "proto" }

// FrameType 二进制帧
func (ProtoCodec) FrameType() int { return websocket.BinaryMessage }

// Encode 编码
func (ProtoCodec) Encode(msg Message) ([]byte, error) {
	// 负载先转成 JSON 再装入 Struct，保证字段名与 JSON 一致
	fields := map[string]any{
		"type": msg.Type,
		"seq":  float64(msg.Seq),
		"time": float64(msg.Time),
	}
	if msg.Payload != nil {
		raw, err := json.Marshal(msg.Payload)
		if err != nil {
			return nil, fmt.Errorf("protobuf编码负载失败: %w", err)
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("protobuf编码负载失败: %w", err)
		}
		fields["payload"] = generic
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("protobuf编码失败: %w", err)
	}
	return proto.Marshal(st)
}

// Decode 解码
func (ProtoCodec) Decode(data []byte) (Message, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return Message{}, fmt.Errorf("protobuf解码失败: %w", err)
	}
	f := st.GetFields()
	msg := Message{
		Type: f["type"].GetStringValue(),
		Seq:  uint64(f["seq"].GetNumberValue()),
		Time: int64(f["time"].GetNumberValue()),
	}
	if p, ok := f["payload"]; ok {
		if _, isNull := p.GetKind().(*structpb.Value_NullValue); !isNull {
			msg.bind = func(v any) error {
				raw, err := p.MarshalJSON()
				if err != nil {
					return err
				}
				return json.Unmarshal(raw, v)
			}
		}
	}
	return msg, nil
}
