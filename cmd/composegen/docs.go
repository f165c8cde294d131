package main

//go:generate swag init --dir ../../ --generalInfo cmd/composegen/docs.go --output ../../internal/httpapi/docs --outputTypes go

// General API documentation for swaggo. The generated document lives in
// internal/httpapi/docs and is served when built with the swagger tag.
//
// @title           composegen API
// @version         1.0
// @description     Render docker-compose manifests for GPU inference hosts.
//
// @contact.name   composegen maintainers
// @contact.url    https://github.com/your-org/composegen
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
