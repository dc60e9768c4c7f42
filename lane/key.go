package lane

// StarKey identifies a star within the mesh. It wraps the star's point
// string form since Point itself isn't comparable (it holds a slice).
type StarKey string

func StarKeyOf(pointString string) StarKey { return StarKey(pointString) }
