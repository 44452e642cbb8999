/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log Fields.
const (
	FieldPresentationID = "presentationID"
	FieldClientID       = "clientID"
	FieldResponseMode   = "responseMode"
	FieldJarMode        = "jarMode"
	FieldPresDefMode    = "presDefMode"
	FieldRedirectURI    = "redirectURI"
	FieldSessionID      = "sessionID"
	FieldUserAgent      = "userAgent"
	FieldIsMobile       = "isMobile"
	FieldHTTPStatus     = "httpStatus"
	FieldURL            = "url"
	FieldEvent          = "event"
	FieldUserLogLevel   = "userLogLevel"
)

// WithPresentationID sets the PresentationID field.
func WithPresentationID(presentationID string) zap.Field {
	return zap.String(FieldPresentationID, presentationID)
}

// WithClientID sets the ClientID field.
func WithClientID(clientID string) zap.Field {
	return zap.String(FieldClientID, clientID)
}

// WithResponseMode sets the ResponseMode field.
func WithResponseMode(responseMode string) zap.Field {
	return zap.String(FieldResponseMode, responseMode)
}

// WithJarMode sets the JarMode field.
func WithJarMode(jarMode string) zap.Field {
	return zap.String(FieldJarMode, jarMode)
}

// WithPresDefMode sets the PresDefMode (presentation definition mode) field.
func WithPresDefMode(presDefMode string) zap.Field {
	return zap.String(FieldPresDefMode, presDefMode)
}

// WithRedirectURI sets the RedirectURI field.
func WithRedirectURI(redirectURI string) zap.Field {
	return zap.String(FieldRedirectURI, redirectURI)
}

// WithSessionID sets the SessionID field.
func WithSessionID(sessionID string) zap.Field {
	return zap.String(FieldSessionID, sessionID)
}

// WithUserAgent sets the UserAgent field.
func WithUserAgent(userAgent string) zap.Field {
	return zap.String(FieldUserAgent, userAgent)
}

// WithIsMobile sets the IsMobile field.
func WithIsMobile(isMobile bool) zap.Field {
	return zap.Bool(FieldIsMobile, isMobile)
}

// WithHTTPStatus sets the HTTPStatus field.
func WithHTTPStatus(status int) zap.Field {
	return zap.Int(FieldHTTPStatus, status)
}

// WithURL sets the URL field.
func WithURL(url string) zap.Field {
	return zap.String(FieldURL, url)
}

// WithEvent sets the Event field.
func WithEvent(event interface{}) zap.Field {
	return zap.Inline(NewObjectMarshaller(FieldEvent, event))
}

// WithUserLogLevel sets the UserLogLevel field.
func WithUserLogLevel(logLevel string) zap.Field {
	return zap.String(FieldUserLogLevel, logLevel)
}

// ObjectMarshaller uses reflection to marshal an object's fields.
type ObjectMarshaller struct {
	key string
	obj interface{}
}

// NewObjectMarshaller returns a new ObjectMarshaller.
func NewObjectMarshaller(key string, obj interface{}) *ObjectMarshaller {
	return &ObjectMarshaller{key: key, obj: obj}
}

// MarshalLogObject marshals the object's fields.
func (m *ObjectMarshaller) MarshalLogObject(e zapcore.ObjectEncoder) error {
	return e.AddReflected(m.key, m.obj)
}
