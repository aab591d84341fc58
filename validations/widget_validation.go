package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainWidget "github.com/nobotchat/relay/domains/widget"
	pkgError "github.com/nobotchat/relay/pkg/error"
)

const maxMessageLength = 4000

func ValidateWidgetChat(ctx context.Context, request domainWidget.ChatRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Message, validation.Required, validation.Length(1, maxMessageLength)),
		validation.Field(&request.SessionID, validation.Required, validation.Length(1, 128)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
