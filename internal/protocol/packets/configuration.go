package packets

import "github.com/basileia/proxy/internal/wire"

// ClientInformation reports client-side settings; the proxy relays it
// to the backend unchanged and does not otherwise act on it.
type ClientInformation struct {
	Locale               wire.BoundedString `mc:"maxlen:16"`
	ViewDistance         wire.UnsignedByte
	ChatMode             wire.VarInt
	ChatColors           wire.Boolean
	DisplaySkinParts     wire.UnsignedByte
	MainHand             wire.VarInt
	EnableTextFiltering  wire.Boolean
	AllowServerListings  wire.Boolean
}

func (ClientInformation) ID() wire.VarInt { return 0x00 }

// ServerBoundPluginMessage carries the proxy's own command channel
// (when Channel == the command channel identifier) as well as any
// other plugin channel the client opens, which is relayed untouched.
type ServerBoundPluginMessage struct {
	Channel wire.Identifier
	Data    wire.Rest
}

func (ServerBoundPluginMessage) ID() wire.VarInt { return 0x01 }

// AcknowledgeFinishConfiguration carries no fields; its arrival
// transitions the connection from Configuration to Play.
type AcknowledgeFinishConfiguration struct{}

func (AcknowledgeFinishConfiguration) ID() wire.VarInt { return 0x02 }

// KeepAlive echoes an opaque id chosen by whichever side issued the
// matching Ping/KeepAlive.
type KeepAlive struct {
	ID wire.UnsignedLong
}

func (KeepAlive) ID() wire.VarInt { return 0x03 }

// Pong answers a server-issued Ping with the same 32-bit id.
type Pong struct {
	ID wire.Int
}

func (Pong) ID() wire.VarInt { return 0x04 }

// ResourcePackResponse reports the client's handling of a resource
// pack push; the proxy relays it to the backend unchanged.
type ResourcePackResponse struct {
	UUID   wire.UUID
	Result wire.VarInt
}

func (ResourcePackResponse) ID() wire.VarInt { return 0x05 }

// ServerboundConfigurationTable dispatches the six
// Configuration-state serverbound packets.
var ServerboundConfigurationTable = map[int32]constructor{
	0x00: func() Packet { return &ClientInformation{} },
	0x01: func() Packet { return &ServerBoundPluginMessage{} },
	0x02: func() Packet { return &AcknowledgeFinishConfiguration{} },
	0x03: func() Packet { return &KeepAlive{} },
	0x04: func() Packet { return &Pong{} },
	0x05: func() Packet { return &ResourcePackResponse{} },
}

// DecodeServerboundConfiguration decodes a Configuration-state
// serverbound frame.
func DecodeServerboundConfiguration(frame *wire.Frame) (Packet, error) {
	return decodeFrom(ServerboundConfigurationTable, frame)
}

// ClientBoundPluginMessage is relayed verbatim to the client.
type ClientBoundPluginMessage struct {
	Channel wire.Identifier
	Data    wire.Rest
}

func (ClientBoundPluginMessage) ID() wire.VarInt { return 0x00 }

// ConfigDisconnect carries a JSON chat component, terminating the
// connection during Configuration.
type ConfigDisconnect struct {
	Reason wire.String
}

func (ConfigDisconnect) ID() wire.VarInt { return 0x01 }

// FinishConfiguration carries no fields; the client must reply with
// AcknowledgeFinishConfiguration before either side moves to Play.
type FinishConfiguration struct{}

func (FinishConfiguration) ID() wire.VarInt { return 0x02 }

// ClientboundKeepAlive is the server-issued liveness check answered by
// the client's serverbound KeepAlive carrying the same id.
type ClientboundKeepAlive struct {
	ID wire.UnsignedLong
}

func (ClientboundKeepAlive) ID() wire.VarInt { return 0x03 }

// Ping is the server-issued liveness check; the client must reply
// with Pong carrying the same id.
type Ping struct {
	ID wire.Int
}

func (Ping) ID() wire.VarInt { return 0x04 }

// RegistryData carries one NBT compound per call; the proxy relays it
// without interpreting the tree (§1's black-box NBT treatment).
type RegistryData struct {
	Data wire.CompoundTag
}

func (RegistryData) ID() wire.VarInt { return 0x05 }

// RemoveResourcePack optionally names a single pack to remove; an
// absent UUID means "remove all".
type RemoveResourcePack struct {
	UUID wire.PrefixedOptional[wire.UUID]
}

func (RemoveResourcePack) ID() wire.VarInt { return 0x06 }

// AddResourcePack pushes a resource pack to the client.
type AddResourcePack struct {
	UUID    wire.UUID
	Url     wire.BoundedString `mc:"maxlen:32767"`
	Hash    wire.BoundedString `mc:"maxlen:40"`
	Forced  wire.Boolean
	Prompt  wire.PrefixedOptional[wire.String]
}

func (AddResourcePack) ID() wire.VarInt { return 0x07 }

// FeatureFlags is relayed opaquely; the proxy does not gate behavior
// on which vanilla feature flags are enabled.
type FeatureFlags struct {
	FeatureFlags wire.Rest
}

func (FeatureFlags) ID() wire.VarInt { return 0x08 }

// UpdateTags is relayed opaquely.
type UpdateTags struct {
	Tags wire.Rest
}

func (UpdateTags) ID() wire.VarInt { return 0x09 }

// ClientboundConfigurationTable dispatches the ten
// Configuration-state clientbound packets.
var ClientboundConfigurationTable = map[int32]constructor{
	0x00: func() Packet { return &ClientBoundPluginMessage{} },
	0x01: func() Packet { return &ConfigDisconnect{} },
	0x02: func() Packet { return &FinishConfiguration{} },
	0x03: func() Packet { return &ClientboundKeepAlive{} },
	0x04: func() Packet { return &Ping{} },
	0x05: func() Packet { return &RegistryData{} },
	0x06: func() Packet { return &RemoveResourcePack{} },
	0x07: func() Packet { return &AddResourcePack{} },
	0x08: func() Packet { return &FeatureFlags{} },
	0x09: func() Packet { return &UpdateTags{} },
}

// DecodeClientboundConfiguration decodes a Configuration-state
// clientbound frame.
func DecodeClientboundConfiguration(frame *wire.Frame) (Packet, error) {
	return decodeFrom(ClientboundConfigurationTable, frame)
}
