package forecaster

import "errors"

// MessageInvalidSelection is shown when the entity, target or model is not recognized
const MessageInvalidSelection = "Invalid selection. Please try again."

// Outcome is what a user sees for one request: either a full response or a single message
type Outcome struct {
	Response *Response `json:"response,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// OK reports whether the outcome carries a forecast
func (o Outcome) OK() bool {
	return o.Response != nil
}

// Message converts a request error into the single line shown to a user
func Message(err error) string {
	if errors.Is(err, ErrInvalidSelection) {
		return MessageInvalidSelection
	}
	var failure *Failure
	if errors.As(err, &failure) {
		err = failure.Err
	}
	return "Forecasting failed: " + err.Error()
}

// Run parses and serves a user selection. No partial result is returned on failure.
func (f *Forecaster) Run(in Input) Outcome {
	req, err := ParseRequest(in, f.opt.DefaultHorizon)
	if err != nil {
		f.logger.Warn("invalid selection", "entity", in.Entity, "target", in.Target, "model", in.Model, "error", err.Error())
		return Outcome{Message: Message(&Failure{Stage: Validating, Err: err})}
	}
	resp, err := f.Forecast(req)
	if err != nil {
		return Outcome{Message: Message(err)}
	}
	return Outcome{Response: resp}
}
