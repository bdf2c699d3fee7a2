package main

import (
	"localtradefinder-api/internal/handlers"
	"localtradefinder-api/pkg/lambda"
	"localtradefinder-api/pkg/server"
)

func main() {
	lambda.Start(server.Function(handlers.FunctionCustomerMagicLinkAlias))
}
