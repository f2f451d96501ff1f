package mqtt

import (
	"bytes"
	"testing"

	"github.com/mezquit/mezquit/testutils"
)

func Test_ConnectFrame_WriteTo_minimal(t *testing.T) {
	opts, err := NewConnectOptions(ClientName("MqttUnitTest"))
	testutils.CheckNotError(err, t)
	frame := NewConnectFrame(opts)

	var buf bytes.Buffer
	_, err = frame.WriteTo(&buf)
	testutils.CheckNotError(err, t)

	// fixed header (2 bytes) + 10 byte variable header + 2 + len("MqttUnitTest")
	testutils.CheckEqual(2+10+2+len("MqttUnitTest"), buf.Len(), t)
	testutils.CheckEqual(byte(ConnectType)<<4, buf.Bytes()[0], t)
}

func Test_ConnectFrame_WriteTo_withWillAndCredentials(t *testing.T) {
	pw := []byte("secret")
	opts, err := NewConnectOptions(
		ClientName("c1"),
		WillTopic("lwt"),
		WillMessage([]byte("bye")),
		WillQoS(1),
		WillRetain(true),
		UserName("alice"),
		Password(pw),
	)
	testutils.CheckNotError(err, t)
	frame := NewConnectFrame(opts)

	var buf bytes.Buffer
	_, err = frame.WriteTo(&buf)
	testutils.CheckNotError(err, t)

	// fixed header (2 bytes: type+flags, 1-byte remaining length) + variable header's
	// protocol name (2+4) + level (1) puts the connect-flags byte at offset 9.
	bits := buf.Bytes()[9]
	testutils.CheckTrue(bits&WillFlag != 0, t)
	testutils.CheckTrue(bits&WillQoSOne != 0, t)
	testutils.CheckTrue(bits&WillRetainFlag != 0, t)
	testutils.CheckTrue(bits&UserNameFlag != 0, t)
	testutils.CheckTrue(bits&PasswordFlag != 0, t)
}

func Test_PublishFrame_roundTrip_QoS0(t *testing.T) {
	f := &PublishFrame{Topic: "a/b", Payload: []byte{1, 2, 3}}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	testutils.CheckNotError(err, t)

	decoded, err := DecodeFrame(&buf)
	testutils.CheckNotError(err, t)
	pub, ok := decoded.(*PublishFrame)
	testutils.CheckTrue(ok, t)
	testutils.CheckEqual("a/b", pub.Topic, t)
	testutils.CheckEqual([]byte{1, 2, 3}, pub.Payload, t)
	testutils.CheckEqual(0, pub.QoS, t)
	testutils.CheckEqual(uint16(0), pub.PacketID, t)
}

func Test_PublishFrame_roundTrip_QoS2_withDupAndRetain(t *testing.T) {
	f := &PublishFrame{Topic: "t", QoS: 2, Retain: true, Dup: true, PacketID: 42, Payload: []byte("hello")}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	testutils.CheckNotError(err, t)

	decoded, err := DecodeFrame(&buf)
	testutils.CheckNotError(err, t)
	pub := decoded.(*PublishFrame)
	testutils.CheckEqual(2, pub.QoS, t)
	testutils.CheckTrue(pub.Retain, t)
	testutils.CheckTrue(pub.Dup, t)
	testutils.CheckEqual(uint16(42), pub.PacketID, t)
	testutils.CheckEqual([]byte("hello"), pub.Payload, t)
}

func Test_PublishFrame_WithDup_doesNotMutateOriginal(t *testing.T) {
	f := &PublishFrame{Topic: "t", QoS: 1, PacketID: 7}
	dup := f.WithDup()
	testutils.CheckTrue(dup.Dup, t)
	testutils.CheckTrue(!f.Dup, t)
}

func Test_PubRelFrame_fixedHeaderFlagsAreAlwaysQoS1(t *testing.T) {
	f := NewPubRelFrame(9)
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	testutils.CheckNotError(err, t)
	testutils.CheckEqual(byte(PublishReleaseType)<<4|PublishReleaseReserved, buf.Bytes()[0], t)

	decoded, err := DecodeFrame(bytes.NewReader(buf.Bytes()))
	testutils.CheckNotError(err, t)
	rel := decoded.(*PubRelFrame)
	testutils.CheckEqual(uint16(9), rel.PacketID, t)
}

func Test_AckFrames_roundTrip(t *testing.T) {
	cases := []Frame{
		NewPubAckFrame(1),
		NewPubRecFrame(2),
		NewPubCompFrame(3),
		NewUnsubAckFrame(4),
	}
	for _, f := range cases {
		var buf bytes.Buffer
		_, err := f.WriteTo(&buf)
		testutils.CheckNotError(err, t)
		decoded, err := DecodeFrame(bytes.NewReader(buf.Bytes()))
		testutils.CheckNotError(err, t)
		testutils.CheckEqual(f.Type(), decoded.Type(), t)
	}
}

func Test_SubscribeFrame_roundTrip(t *testing.T) {
	f := &SubscribeFrame{PacketID: 3, Filters: []TopicFilter{{Filter: "a", QoS: 0}, {Filter: "b", QoS: 2}}}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	testutils.CheckNotError(err, t)

	decoded, err := DecodeFrame(bytes.NewReader(buf.Bytes()))
	testutils.CheckNotError(err, t)
	sub := decoded.(*SubscribeFrame)
	testutils.CheckEqual(uint16(3), sub.PacketID, t)
	testutils.CheckEqual(2, len(sub.Filters), t)
	testutils.CheckEqual("b", sub.Filters[1].Filter, t)
	testutils.CheckEqual(2, sub.Filters[1].QoS, t)
}

func Test_SubAckFrame_roundTrip(t *testing.T) {
	f := &SubAckFrame{PacketID: 3, GrantedQoS: []int{0, 2}}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	testutils.CheckNotError(err, t)

	decoded, err := DecodeFrame(bytes.NewReader(buf.Bytes()))
	testutils.CheckNotError(err, t)
	suback := decoded.(*SubAckFrame)
	testutils.CheckEqual([]int{0, 2}, suback.GrantedQoS, t)
}

func Test_UnsubscribeFrame_roundTrip(t *testing.T) {
	f := &UnsubscribeFrame{PacketID: 5, Filters: []string{"a/b", "c/#"}}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	testutils.CheckNotError(err, t)

	decoded, err := DecodeFrame(bytes.NewReader(buf.Bytes()))
	testutils.CheckNotError(err, t)
	uns := decoded.(*UnsubscribeFrame)
	testutils.CheckEqual([]string{"a/b", "c/#"}, uns.Filters, t)
}

func Test_PingReq_roundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := PingReqFrame{}.WriteTo(&buf)
	testutils.CheckNotError(err, t)
	decoded, err := DecodeFrame(bytes.NewReader(buf.Bytes()))
	testutils.CheckNotError(err, t)
	testutils.CheckEqual(PingReqType, decoded.Type(), t)
}

func Test_ConnAckFrame_decode(t *testing.T) {
	var buf bytes.Buffer
	f := &ConnAckFrame{SessionPresent: true, ReturnCode: ConnectionRefusedBadUserPassword}
	_, err := f.WriteTo(&buf)
	testutils.CheckNotError(err, t)

	decoded, err := DecodeFrame(bytes.NewReader(buf.Bytes()))
	testutils.CheckNotError(err, t)
	ack := decoded.(*ConnAckFrame)
	testutils.CheckTrue(ack.SessionPresent, t)
	testutils.CheckEqual(byte(ConnectionRefusedBadUserPassword), ack.ReturnCode, t)
}

func Test_DisconnectFrame_roundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := DisconnectFrame{}.WriteTo(&buf)
	testutils.CheckNotError(err, t)
	testutils.CheckEqual(2, buf.Len(), t)
	decoded, err := DecodeFrame(bytes.NewReader(buf.Bytes()))
	testutils.CheckNotError(err, t)
	testutils.CheckEqual(DisconnectType, decoded.Type(), t)
}
