package send

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/notifbox/notifbox/internal/integration"
	"github.com/notifbox/notifbox/internal/model"
	"github.com/notifbox/notifbox/internal/provider"
	"github.com/notifbox/notifbox/internal/template"
)

var (
	// ErrMissingStep means the job carries no channel step: a malformed
	// workflow definition, not a runtime condition.
	ErrMissingStep = errors.New("workflow step missing")
	// ErrMissingTemplate means the channel step carries no template.
	ErrMissingTemplate = errors.New("step template missing")
)

type referenceResolver interface {
	GetSubscriber(ctx context.Context, envID, id uuid.UUID) (model.Subscriber, error)
	GetEnvironment(ctx context.Context, id uuid.UUID) (model.Environment, error)
	GetTenant(ctx context.Context, envID uuid.UUID, identifier string) (model.Tenant, error)
	GetLayout(ctx context.Context, envID uuid.UUID, identifier string) (model.Layout, error)
}

type integrationSelector interface {
	Select(ctx context.Context, orgID, envID uuid.UUID, channel model.Channel, tenantIdentifier, providerID string) (model.Integration, error)
}

type usageRecorder interface {
	RecordUsage(ctx context.Context, strategy retry.Strategy, integrationID uuid.UUID) error
}

type messageRepository interface {
	Create(ctx context.Context, msg model.Message) (uuid.UUID, error)
	UpdateContent(ctx context.Context, id uuid.UUID, subject, content string) error
	SetProviderMessageID(ctx context.Context, id uuid.UUID, providerMessageID string) error
}

type handlerRegistry interface {
	Handler(integ model.Integration, from string) (provider.Handler, error)
}

type auditWriter interface {
	Append(d model.ExecutionDetail)
}

// EmailSender runs the email delivery pipeline for one trigger job.
//
// Failures split into two tiers. Fatal conditions (missing subscriber,
// malformed step, missing environment, store failures) return an error and
// let the queue layer decide. Everything else is an expected operational
// outcome: it writes exactly one audit entry and Execute returns nil, so the
// job completes at the queue even though delivery failed.
type EmailSender struct {
	resolver     referenceResolver
	selector     integrationSelector
	usage        usageRecorder
	compiler     template.Compiler
	registry     handlerRegistry
	messages     messageRepository
	audit        auditWriter
	strategy     retry.Strategy
	storeContent bool
}

var _ SendChannel = (*EmailSender)(nil)

func NewEmailSender(
	resolver referenceResolver,
	selector integrationSelector,
	usage usageRecorder,
	compiler template.Compiler,
	registry handlerRegistry,
	messages messageRepository,
	audit auditWriter,
	strategy retry.Strategy,
	storeContent bool,
) *EmailSender {
	return &EmailSender{
		resolver:     resolver,
		selector:     selector,
		usage:        usage,
		compiler:     compiler,
		registry:     registry,
		messages:     messages,
		audit:        audit,
		strategy:     strategy,
		storeContent: storeContent,
	}
}

// Execute runs the pipeline end to end. Every early termination after the
// subscriber resolves leaves an audit entry behind.
func (e *EmailSender) Execute(ctx context.Context, cmd Command) error {
	sub, err := e.resolver.GetSubscriber(ctx, cmd.EnvironmentID, cmd.SubscriberID)
	if err != nil {
		// The one condition raised without an audit entry: there is no
		// message record to attach one to, and a missing subscriber is a
		// malformed request.
		return fmt.Errorf("failed to resolve subscriber %s: %w", cmd.SubscriberID, err)
	}

	channelOv := mapValue(cmd.Overrides, string(model.ChannelEmail))
	explicitProvider := stringValue(channelOv, "integrationIdentifier")

	integ, err := e.selector.Select(ctx, cmd.OrganizationID, cmd.EnvironmentID, model.ChannelEmail, cmd.Tenant, explicitProvider)
	if err != nil {
		switch {
		case errors.Is(err, integration.ErrIntegrationNotFound):
			e.append(cmd, uuid.Nil, model.DetailLimitPassedIntegration, model.StatusFailed, err.Error())
			return nil
		case errors.Is(err, integration.ErrNoActiveIntegration):
			e.append(cmd, uuid.Nil, model.DetailNoActiveIntegration, model.StatusFailed, err.Error())
			return nil
		default:
			return fmt.Errorf("failed to select integration: %w", err)
		}
	}

	if cmd.Step == nil {
		return ErrMissingStep
	}
	if cmd.Step.Template == nil {
		return ErrMissingTemplate
	}

	recipient := stringValue(cmd.Payload, "email")
	if recipient == "" {
		recipient = sub.Email
	}

	tenant, layout := e.resolveContext(ctx, cmd, integ)

	providerOv := mapValue(cmd.Overrides, integ.ProviderID)
	merged := MergeOverrides(channelOv, providerOv)
	if rt, ok := cmd.Overrides["replyTo"].(string); ok {
		// Explicit top-level overrides win over both scoped layers.
		merged["replyTo"] = rt
	}

	if recipient == "" {
		e.append(cmd, uuid.Nil, model.DetailMissingEmailAddress, model.StatusFailed, "subscriber has no email address and payload supplied none")
		return nil
	}
	if integ.ProviderID == "" {
		e.append(cmd, uuid.Nil, model.DetailMissingIntegration, model.StatusFailed, "no integration resolved for channel")
		return nil
	}

	msgID, err := e.messages.Create(ctx, model.Message{
		TransactionID:  cmd.TransactionID,
		OrganizationID: cmd.OrganizationID,
		EnvironmentID:  cmd.EnvironmentID,
		SubscriberID:   cmd.SubscriberID,
		NotificationID: cmd.NotificationID,
		TemplateID:     cmd.TemplateID,
		StepID:         cmd.Step.ID,
		JobID:          cmd.JobID,
		Channel:        model.ChannelEmail,
		Recipient:      recipient,
		ProviderID:     integ.ProviderID,
		Payload:        stripAttachments(cmd.Payload),
		Overrides:      merged,
		Status:         "pending",
	})
	if err != nil {
		return fmt.Errorf("failed to create message record: %w", err)
	}

	replyTo, err := e.resolveReplyTo(ctx, cmd, msgID)
	if err != nil {
		return err
	}
	if rt := stringValue(merged, "replyTo"); rt != "" {
		replyTo = rt
	}

	compiled, err := e.compiler.Compile(ctx, cmd.EnvironmentID, cmd.OrganizationID, cmd.UserID, template.Payload{
		Subject:    cmd.Step.Template.Subject,
		Content:    cmd.Step.Template.Content,
		SenderName: cmd.Step.Template.SenderName,
		Layout:     layout,
		Variables:  templateVariables(cmd, sub, tenant),
		Events:     cmd.Events,
	})
	if err != nil {
		e.sendFallback(ctx, cmd, msgID, integ, recipient, err)
		return nil
	}

	if e.storeContent {
		if err := e.messages.UpdateContent(ctx, msgID, compiled.Subject, compiled.HTML); err != nil {
			zlog.Logger.Error().Err(err).Str("message_id", msgID.String()).Msg("failed to persist compiled content")
		}
	}

	e.append(cmd, msgID, model.DetailMessageCreated, model.StatusPending, e.createdRaw(cmd))

	e.dispatch(ctx, cmd, msgID, integ, recipient, replyTo, merged, compiled)

	return nil
}

// resolveContext runs the three independent resolutions concurrently: tenant
// context, layout override content and integration-usage accounting. All
// three are joined before the pipeline continues; none of them aborts it.
func (e *EmailSender) resolveContext(ctx context.Context, cmd Command, integ model.Integration) (*model.Tenant, string) {
	var (
		wg     sync.WaitGroup
		tenant *model.Tenant
		layout string
	)

	if cmd.Tenant != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()

			t, err := e.resolver.GetTenant(ctx, cmd.EnvironmentID, cmd.Tenant)
			if err != nil {
				zlog.Logger.Warn().Err(err).Str("tenant", cmd.Tenant).Msg("failed to resolve tenant context")
				return
			}

			tenant = &t
		}()
	}

	layoutMiss := false
	if cmd.Step != nil && cmd.Step.LayoutOverride != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()

			l, err := e.resolver.GetLayout(ctx, cmd.EnvironmentID, cmd.Step.LayoutOverride)
			if err != nil {
				layoutMiss = true
				return
			}

			layout = l.Content
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		if err := e.usage.RecordUsage(ctx, e.strategy, integ.ID); err != nil {
			zlog.Logger.Warn().Err(err).Str("integration_id", integ.ID.String()).Msg("failed to record integration usage")
		}
	}()

	wg.Wait()

	if layoutMiss {
		e.append(cmd, uuid.Nil, model.DetailLayoutNotFound, model.StatusWarning,
			fmt.Sprintf("layout override %q not found, falling back to default", cmd.Step.LayoutOverride))
	}

	return tenant, layout
}

// resolveReplyTo derives the inbound-parse reply address when the step
// enables reply callbacks. Each unmet prerequisite leaves a distinct WARNING
// entry and yields an empty address; only a missing environment record is
// fatal.
func (e *EmailSender) resolveReplyTo(ctx context.Context, cmd Command, msgID uuid.UUID) (string, error) {
	cb := cmd.Step.ReplyCallback
	if cb == nil || !cb.Active {
		return "", nil
	}

	if cb.URL == "" {
		e.append(cmd, msgID, model.DetailReplyMissingCallback, model.StatusWarning, "reply callback enabled without a callback URL")
		return "", nil
	}

	env, err := e.resolver.GetEnvironment(ctx, cmd.EnvironmentID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve environment %s: %w", cmd.EnvironmentID, err)
	}

	switch {
	case !env.MXRecordConfigured && env.InboundParseDomain == "":
		e.append(cmd, msgID, model.DetailReplyNotConfigured, model.StatusWarning, "neither MX record nor inbound parse domain configured")
		return "", nil
	case !env.MXRecordConfigured:
		e.append(cmd, msgID, model.DetailReplyMissingMXRecord, model.StatusWarning, "MX record not configured")
		return "", nil
	case env.InboundParseDomain == "":
		e.append(cmd, msgID, model.DetailReplyMissingDomain, model.StatusWarning, "inbound parse domain not set")
		return "", nil
	}

	return DeriveReplyTo(cmd.TransactionID, env.ID.String(), env.InboundParseDomain), nil
}

// dispatch hands the compiled message to the provider adapter and reconciles
// the outcome with the message record.
func (e *EmailSender) dispatch(ctx context.Context, cmd Command, msgID uuid.UUID, integ model.Integration, recipient, replyTo string, merged map[string]any, compiled template.Compiled) {
	senderName := stringValue(merged, "senderName")
	if senderName == "" {
		senderName = compiled.SenderName
	}
	if senderName == "" {
		senderName = integ.Credentials.SenderName
	}

	ipPool := stringValue(merged, "ipPoolName")
	if ipPool == "" {
		ipPool = integ.Credentials.IPPoolName
	}

	text := stringValue(merged, "text")
	if text == "" {
		text = compiled.Text
	}

	email := provider.Email{
		To:          Recipients(recipient, merged),
		From:        integ.Credentials.From,
		FromName:    senderName,
		Subject:     compiled.Subject,
		HTML:        compiled.HTML,
		Text:        text,
		CC:          stringSlice(merged, "cc"),
		BCC:         stringSlice(merged, "bcc"),
		ReplyTo:     replyTo,
		Attachments: attachmentsFrom(cmd.Payload, string(model.ChannelEmail)),
		IPPoolName:  ipPool,
		CustomData:  mapValue(merged, "customData"),
	}

	handler, err := e.registry.Handler(integ, integ.Credentials.From)
	if err != nil {
		e.append(cmd, msgID, model.DetailProviderError, model.StatusFailed, err.Error())
		return
	}

	result, err := handler.Send(ctx, email)
	if err != nil {
		e.append(cmd, msgID, model.DetailProviderError, model.StatusFailed, err.Error())
		return
	}

	e.append(cmd, msgID, model.DetailMessageSent, model.StatusSuccess, result.Raw)

	if result.ProviderMessageID != "" {
		if err := e.messages.SetProviderMessageID(ctx, msgID, result.ProviderMessageID); err != nil {
			zlog.Logger.Error().Err(err).Str("message_id", msgID.String()).Msg("failed to write back provider message id")
		}
	}
}

// sendFallback notifies the recipient that content generation failed. It
// runs at most once per attempt and never proceeds to the normal dispatch.
func (e *EmailSender) sendFallback(ctx context.Context, cmd Command, msgID uuid.UUID, integ model.Integration, recipient string, cause error) {
	defer e.append(cmd, msgID, model.DetailContentNotGenerated, model.StatusFailed, cause.Error())

	handler, err := e.registry.Handler(integ, integ.Credentials.From)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to resolve handler for fallback notification")
		return
	}

	_, err = handler.Send(ctx, provider.Email{
		To:       []string{recipient},
		From:     integ.Credentials.From,
		Subject:  "Message content could not be generated",
		HTML:     "<p>The message you were meant to receive could not be generated.</p>",
		Text:     "The message you were meant to receive could not be generated.",
		FromName: integ.Credentials.SenderName,
	})
	if err != nil {
		zlog.Logger.Error().Err(err).Str("message_id", msgID.String()).Msg("failed to send fallback notification")
	}
}

func (e *EmailSender) append(cmd Command, msgID uuid.UUID, kind model.DetailKind, status model.ExecutionStatus, raw string) {
	e.audit.Append(model.ExecutionDetail{
		MessageID: msgID,
		JobID:     cmd.JobID,
		Kind:      kind,
		Source:    model.SourceInternal,
		Status:    status,
		IsTest:    cmd.IsTest,
		IsRetry:   cmd.IsRetry,
		Raw:       raw,
	})
}

// createdRaw returns the payload echoed into the MESSAGE_CREATED entry.
// Without content retention the entry carries no raw payload at all.
func (e *EmailSender) createdRaw(cmd Command) string {
	if !e.storeContent {
		return ""
	}

	raw, err := json.Marshal(stripAttachments(cmd.Payload))
	if err != nil {
		return ""
	}

	return string(raw)
}

// templateVariables merges the trigger payload with subscriber and tenant
// context for the rendering engine.
func templateVariables(cmd Command, sub model.Subscriber, tenant *model.Tenant) map[string]any {
	vars := make(map[string]any, len(cmd.Payload)+2)
	for k, v := range cmd.Payload {
		vars[k] = v
	}

	vars["subscriber"] = map[string]any{
		"email":     sub.Email,
		"firstName": sub.FirstName,
		"lastName":  sub.LastName,
		"locale":    sub.Locale,
	}

	if tenant != nil {
		vars["tenant"] = map[string]any{
			"identifier": tenant.Identifier,
			"name":       tenant.Name,
			"data":       tenant.Data,
		}
	}

	return vars
}
