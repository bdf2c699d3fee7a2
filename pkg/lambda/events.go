package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// failure is the body returned when the handler itself fails
type failure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// FromAPIGateway converts an API Gateway proxy event into a generic request
func FromAPIGateway(event events.APIGatewayProxyRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode event body: %w", err)
		}
		body = decoded
	}

	headers := make(map[string]string, len(event.Headers)+len(event.MultiValueHeaders))
	for k, values := range event.MultiValueHeaders {
		if len(values) > 0 {
			headers[k] = values[0]
		}
	}
	for k, v := range event.Headers {
		headers[k] = v
	}

	query := make(map[string]string, len(event.QueryStringParameters))
	for k, v := range event.QueryStringParameters {
		query[k] = v
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  event.PathParameters,
	}, nil
}

// ToAPIGateway converts a generic response into an API Gateway proxy response
func ToAPIGateway(resp *Response) events.APIGatewayProxyResponse {
	if resp == nil {
		return events.APIGatewayProxyResponse{StatusCode: 204}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}

// APIGatewayHandler adapts h to the Lambda proxy integration signature
func APIGatewayHandler(h HandlerFunc) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := FromAPIGateway(event)
		if err != nil {
			logrus.WithError(err).Warn("Rejected malformed event")
			return events.APIGatewayProxyResponse{
				StatusCode: 400,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       `{"ok":false,"error":"Invalid request body"}`,
			}, nil
		}

		resp, err := h(ctx, req)
		if err != nil {
			logrus.WithError(err).Error("Handler failed")
			body, _ := json.Marshal(failure{OK: false, Error: err.Error()})
			return events.APIGatewayProxyResponse{
				StatusCode: 500,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       string(body),
			}, nil
		}

		return ToAPIGateway(resp), nil
	}
}

// Start runs h as the function's Lambda entry point
func Start(h HandlerFunc) {
	awslambda.Start(APIGatewayHandler(h))
}
