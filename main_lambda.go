//go:build lambda

package main

import (
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

//go:embed data.min.json
var embeddedCatalog string

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type searchResponse struct {
	resultJSON
	Detail string `json:"detail"`
}

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	cat, err := catalogFromJSON(embeddedCatalog)
	if err != nil {
		return errResp(500, err.Error())
	}
	req, err := ParseRequest(cat, body)
	if err != nil {
		return errResp(400, err.Error())
	}

	cfg := DefaultConfig()
	// function URLs cut the connection at 30 seconds
	cfg.Timeout = 25 * time.Second
	if req.Timeout == 0 || req.Timeout > cfg.Timeout {
		req.Timeout = cfg.Timeout
	}

	opt, err := NewOptimizer(cat, req, cfg)
	if err != nil {
		return searchErrResp(err)
	}
	opt.Prune()
	res, err := opt.Optimize(ctx)
	if err != nil {
		return searchErrResp(err)
	}

	resp := searchResponse{
		resultJSON: resultToJSON(cat, res),
		Detail:     FormatResult(cat, res),
	}
	respJSON, _ := json.Marshal(resp)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

// searchErrResp maps search failures to status codes: requests no build
// can satisfy are a 422, anything else is on us.
func searchErrResp(err error) (events.LambdaFunctionURLResponse, error) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return errResp(422, err.Error())
	}
	return errResp(500, err.Error())
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
