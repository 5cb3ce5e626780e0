package common

// AuthorizationHeaderName is the HTTP header carrying the bearer credential
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix prefixes the credential value in the authorization header.
const BearerPrefix = "Bearer "
