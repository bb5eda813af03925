// Package docs provides generated OpenAPI documentation.
//
// Vitae API
//
//	@title			Vitae API
//	@version		1.0
//	@description	Resume parsing API: OCR plus structured extraction backed by Mistral models.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/vitae
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/vitae/serve.go -o ./swagger --parseDependency --parseInternal
