package star

import "github.com/starlane-io/starlane/lane"

// Key identifies a star within the mesh. It is lane.StarKey under the
// alias: the hierarchical "constellation:galaxy:system:star" naming
// used as the map key for lanes and the path table, kept as a single
// comparable string type rather than a parsed struct since nothing in
// this core needs to inspect a star key's internal segments, only
// compare and stringify it.
type Key = lane.StarKey

// KeyOf builds a Key from a star's point string form.
func KeyOf(s string) Key { return lane.StarKeyOf(s) }
