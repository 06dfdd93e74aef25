package session

// User-facing failure messages. The product copy is Spanish; screens render
// these verbatim. Login failures are deliberately generic so the error text
// cannot be used as a credential oracle.
const (
	MsgInvalidCredentials   = "Credenciales incorrectas"
	MsgNoTokenReceived      = "No se recibió token"
	MsgRegisterFailed       = "Error al crear cuenta"
	MsgRegisterUnauthorized = "Error 401 en Registro."
	MsgUpdateFailed         = "Error actualizando"
)
