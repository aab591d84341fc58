package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainRelay "github.com/nobotchat/relay/domains/relay"
	pkgError "github.com/nobotchat/relay/pkg/error"
)

func ValidateSendMessage(ctx context.Context, request domainRelay.SendMessageRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.WorkspaceID, validation.Required),
		validation.Field(&request.Content, validation.Required, validation.Length(1, maxMessageLength)),
		validation.Field(&request.Sender, validation.Required, validation.In("customer", "agent")),
		validation.Field(&request.Channel, validation.In("widget", "whatsapp", "messenger", "email")),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
