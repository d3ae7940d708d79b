// Package dependency lays out dependency trees as arcs over a row of tokens.
//
// A [Graph] holds one sentence: token 0 is the synthetic root and token i
// (i ≥ 1) is the i-th word. Every word has exactly one [Arc] to its head.
//
// # Layout
//
// [Layout] runs the passes in order:
//
//   - [AssignTiers]: arcs are taken shortest first; an arc rises one tier
//     above the highest arc already crossing any gap it spans, so arcs whose
//     spans overlap never share a tier.
//   - [AssignRanks]: the connectors on each token are ordered so that arcs
//     fan out across the token box without crossing each other.
//   - [Place]: tokens are laid out left to right; a token with many
//     connectors reserves ConnectorGap per connector.
//   - [Route]: each arc gets ports on its two tokens. When an arc's label is
//     wider than the distance between its ports, the token with the higher
//     id and every token after it move right by the overflow.
//
// Ports are stored relative to the token box, so shifts made while routing
// later arcs carry earlier arcs along. Use [Graph.Path] for final geometry.
package dependency
