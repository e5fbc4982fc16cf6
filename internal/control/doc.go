// Package control implements the client side of the Tor control
// protocol as a one-shot session machine.
//
// A Session connects to a control endpoint, negotiates authentication
// via a short PROTOCOLINFO exchange, writes an AUTHENTICATE line, the
// operator's command batch, and QUIT, then drains the connection to EOF
// and classifies the accumulated reply. Writes are never interleaved
// with reads: the whole reply stream is consumed in one drain after all
// commands are on the wire.
//
// The session's collaborators are injected: a Transport dials
// endpoints, a HexCodec encodes cookie bytes. Tests substitute scripted
// implementations; production code uses NetTransport and UpperHex.
//
// The package also carries the torrc HashedControlPassword generator,
// which shares the protocol's notion of hex encoding.
package control
