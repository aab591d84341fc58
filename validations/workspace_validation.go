package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	domainWorkspace "github.com/nobotchat/relay/domains/workspace"
	pkgError "github.com/nobotchat/relay/pkg/error"
)

func ValidateCreateWorkspace(ctx context.Context, request domainWorkspace.CreateWorkspaceRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&request.SupportEmail, is.Email),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateUpdateWorkspace(ctx context.Context, request domainWorkspace.UpdateWorkspaceRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Status, validation.By(func(value any) error {
			status, _ := value.(*string)
			if status == nil {
				return nil
			}
			return validation.Validate(*status, validation.In("pending", "active", "suspended"))
		})),
		validation.Field(&request.ReplyDelayMs, validation.By(nonNegative)),
		validation.Field(&request.TypingIndicatorDuration, validation.By(nonNegative)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func nonNegative(value any) error {
	v, _ := value.(*int)
	if v == nil {
		return nil
	}
	return validation.Validate(*v, validation.Min(0))
}
