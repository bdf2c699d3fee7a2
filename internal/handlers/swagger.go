package handlers

// @title Local Trade Finder API
// @version 1.0
// @description Serverless functions for the trader directory: applications, moderation, reviews and logins

// @contact.name API Support
// @contact.url https://localtradefinder-uk.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8888
// @BasePath /.netlify/functions

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session access token.

// @securityDefinitions.apikey AdminToken
// @in header
// @name x-admin-token

// @tag.name applications
// @tag.description Trader sign-up

// @tag.name admin
// @tag.description Application moderation

// @tag.name directory
// @tag.description Public trader search

// @tag.name traders
// @tag.description Trader account operations

// @tag.name reviews
// @tag.description Customer reviews

// @tag.name customers
// @tag.description Customer login
