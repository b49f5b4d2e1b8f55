// Package docs Mada Job account API documentation
package docs

// Swagger documentation info
// @title Mada Job app
// @version 0.1
// @description Account and authentication API: login, token refresh and revocation, user management.

// @contact.name API Support

// @license.name MIT

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @tag.name auth
// @tag.description Login, token refresh and logout
// @tag.name users
// @tag.description User management
