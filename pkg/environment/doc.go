// Package environment carries the deployment stage (development, staging or
// production) of the uaparser service through context.Context and HTTP
// requests.
//
// Parse turns the APP_ENV value into an Environment. The logger factory uses
// it to pick output defaults, and the HTTP API attaches it to each request
// with Middleware so error responses can include details outside production.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	handler := environment.Middleware(env)(router)
package environment
