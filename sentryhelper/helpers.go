// Package sentryhelper keeps sentry scope separate for each interaction, so
// breadcrumbs from one command never leak into another's report.
package sentryhelper

import (
	"context"
	"fmt"

	sentry "github.com/getsentry/sentry-go"
)

type contextKey string

const hubContextKey contextKey = "sentry_hub"

// StartCommandTransaction clones the current hub and starts a
// "discord.command.<name>" transaction bound to it. The returned context
// carries both.
func StartCommandTransaction(ctx context.Context, commandName, guildID, userID string) (context.Context, *sentry.Span) {
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: userID})
		scope.SetTag("command", commandName)
		scope.SetTag("guild_id", guildID)
	})

	ctx = sentry.SetHubOnContext(ctx, hub)
	ctx = context.WithValue(ctx, hubContextKey, hub)

	transaction := sentry.StartTransaction(ctx, fmt.Sprintf("discord.command.%s", commandName),
		sentry.WithOpName("discord.command"),
		sentry.WithTransactionSource(sentry.SourceRoute),
	)
	transaction.SetTag("command", commandName)
	transaction.SetTag("guild_id", guildID)

	hub.Scope().SetSpan(transaction)

	return transaction.Context(), transaction
}

// HubFromContext returns the command's hub, or the current hub outside of a
// command.
func HubFromContext(ctx context.Context) *sentry.Hub {
	if ctx == nil {
		return sentry.CurrentHub()
	}
	if hub, ok := ctx.Value(hubContextKey).(*sentry.Hub); ok && hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

func AddBreadcrumb(ctx context.Context, breadcrumb *sentry.Breadcrumb) {
	HubFromContext(ctx).AddBreadcrumb(breadcrumb, nil)
}

func CaptureException(ctx context.Context, err error) *sentry.EventID {
	return HubFromContext(ctx).CaptureException(err)
}
