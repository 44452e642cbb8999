/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4vp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/credentio/verifier-gateway/pkg/event/spi"
	"github.com/credentio/verifier-gateway/pkg/restapi/resterr"
)

type eventPayload struct {
	Error          string `json:"error,omitempty"`
	ErrorCode      string `json:"errorCode,omitempty"`
	ErrorComponent string `json:"errorComponent,omitempty"`
}

func (s *Service) createEvent(presentationID string, eventType spi.EventType, e error) (*spi.Event, error) {
	ep := eventPayload{}

	if e != nil {
		ep.Error = e.Error()

		var customErr *resterr.CustomError
		if errors.As(e, &customErr) {
			ep.ErrorCode = customErr.Code.Name()
			ep.ErrorComponent = string(customErr.ErrorComponent)
		}
	}

	payload, err := json.Marshal(ep)
	if err != nil {
		return nil, err
	}

	event := spi.NewEventWithPayload(uuid.NewString(), eventSource, eventType, payload)
	event.TransactionID = presentationID

	return event, nil
}

func (s *Service) sendEvent(ctx context.Context, presentationID string, eventType spi.EventType) error {
	return s.sendEventWithError(ctx, presentationID, eventType, nil)
}

func (s *Service) sendEventWithError(ctx context.Context, presentationID string,
	eventType spi.EventType, e error) error {
	event, err := s.createEvent(presentationID, eventType, e)
	if err != nil {
		return err
	}

	return s.eventSvc.Publish(ctx, s.eventTopic, event)
}

func (s *Service) sendFailedEvent(ctx context.Context, presentationID string, err error) {
	e := s.sendEventWithError(ctx, presentationID, spi.VerifierOIDCInteractionFailed, err)
	logger.Debugc(ctx, "sending failed verifier interaction event error, ignoring..", log.WithError(e))
}
