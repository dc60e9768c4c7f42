package wave

// DirectedCore is the payload of a directed wave (Ping/Signal/Ripple):
// a method/uri selecting an operation on the destination, plus headers
// and a body.
type DirectedCore struct {
	Method  Method
	Uri     string
	Headers map[string]string
	Body    Substance
}

func NewDirectedCore(method Method, uri string) DirectedCore {
	return DirectedCore{Method: method, Uri: uri, Headers: map[string]string{}, Body: SubstanceOfEmpty()}
}

func (c DirectedCore) WithBody(b Substance) DirectedCore {
	c.Body = b
	return c
}

// ReflectedCore is the payload of a reflected wave (Pong/Echo): a status
// code plus headers and a body, mirroring an HTTP-shaped response.
type ReflectedCore struct {
	Status  int
	Headers map[string]string
	Body    Substance
}

func NewOkCore() ReflectedCore {
	return ReflectedCore{Status: 200, Headers: map[string]string{}, Body: SubstanceOfEmpty()}
}

func NewOkBodyCore(body Substance) ReflectedCore {
	c := NewOkCore()
	c.Body = body
	return c
}

func NewStatusCore(status int) ReflectedCore {
	return ReflectedCore{Status: status, Headers: map[string]string{}, Body: SubstanceOfEmpty()}
}

func NewErrCore(status int, message string) ReflectedCore {
	return ReflectedCore{Status: status, Headers: map[string]string{}, Body: SubstanceOfError(message)}
}

func NewNotFoundCore(message string) ReflectedCore {
	return NewErrCore(404, message)
}

func NewTimeoutCore() ReflectedCore {
	return NewStatusCore(408)
}

// IsOk reports whether Status is a 2xx success code.
func (c ReflectedCore) IsOk() bool {
	return c.Status >= 200 && c.Status < 300
}
