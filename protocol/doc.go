package protocol

// This package implements framing, parsing and serialising of the LRGS DDS
// protocol ("LDDS") used by a client to pull DCP messages from an LRGS or
// DDS server.
//
// Every exchange is a single request frame from the client followed by a
// single response frame from the server. There is no interleaving and no
// request ID; the client simply waits for the reply before sending again.
//
// === Frame
//
//   ```
//   FAF0<type><length><payload>
//   ```
//
// - `FAF0`     - 4 byte sync code
// - `<type>`   - 1 byte message type, one of 'a'..'u' (see MessageType)
// - `<length>` - 5 ASCII decimal digits, zero padded when written. Some
//                servers pad with spaces, so spaces are read as '0'.
// - `<payload>` - exactly `<length>` bytes
//
// The header is therefore always 10 bytes and the payload is at most 99999
// bytes.
//
// === Server errors
//
// A response payload that starts with '?' is an error report:
//
//   ```
//   ?<derrno>,<errno>,<message>
//   ```
//
// `<derrno>` is one of the server error codes (see ErrorCode), `<errno>` is the
// server side system errno, `<message>` is free text. The payload may be NUL
// terminated before its declared end.
//
// Two codes, DUNTIL and DUNTILDRS, are not failures: they tell the client
// that the 'until' time of its search criteria has been reached and the
// stream is complete.
//
// === Session
//
//   ```
//   > m  <user> <YYDDDHHMMSS> <authenticator> <version>
//   < m  <user> ... | ?<derrno>,...
//   > g  <50 byte name field><search criteria text>
//   < g  ... | ?<derrno>,...
//   > n
//   < n  <dcp message><dcp message>...   (repeated)
//   < n  ?35,0,Until Reached
//   > b
//   < b
//   ```
//
// See the dcp package for the layout of the DCP messages carried in a
// dcp-block ('n') response.
