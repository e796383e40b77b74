package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PocketPalCo/catalog-bot/internal/core/users"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrUnknownCommand is returned by ExecuteCommand for names nobody registered.
var ErrUnknownCommand = errors.New("unknown command")

// Reply is the payload a command produces for the originating chat.
type Reply struct {
	Text      string
	ParseMode string
}

// HTMLReply wraps text rendered by the template manager.
func HTMLReply(text string) Reply {
	return Reply{Text: text, ParseMode: tgbotapi.ModeHTML}
}

// Command represents a bot command handler
type Command interface {
	// GetName returns the command name (without /)
	GetName() string

	// RequiresAdmin returns true if the command requires admin privileges
	RequiresAdmin() bool

	// Handle executes the command with the raw text that followed it
	Handle(ctx context.Context, user *users.User, args string) (Reply, error)
}

// Authorizer decides whether a requester is the administrator.
type Authorizer interface {
	IsAdmin(telegramID int64) bool
}

// CommandRegistry manages bot commands
type CommandRegistry struct {
	commands   map[string]Command
	authorizer Authorizer
	templates  TemplateRenderer
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(authorizer Authorizer, templates TemplateRenderer) *CommandRegistry {
	return &CommandRegistry{
		commands:   make(map[string]Command),
		authorizer: authorizer,
		templates:  templates,
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd Command) {
	r.commands[cmd.GetName()] = cmd
}

// RegisterAlias makes cmd reachable under an additional name
func (r *CommandRegistry) RegisterAlias(alias string, cmd Command) {
	r.commands[alias] = cmd
}

// Get retrieves a command by name
func (r *CommandRegistry) Get(name string) (Command, bool) {
	cmd, exists := r.commands[strings.ToLower(name)]
	return cmd, exists
}

// Names returns all registered names, aliases included, sorted
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecuteCommand runs a command by name. Admin-only commands issued by anyone
// else get the permission-denied reply and are never invoked.
func (r *CommandRegistry) ExecuteCommand(ctx context.Context, commandName string, user *users.User, args string) (Reply, error) {
	command, exists := r.Get(commandName)
	if !exists {
		return Reply{}, fmt.Errorf("%w: %s", ErrUnknownCommand, commandName)
	}

	if command.RequiresAdmin() && !r.authorizer.IsAdmin(user.TelegramID) {
		return HTMLReply(r.templates.RenderMessage("permission_denied", user.Locale, nil)), nil
	}

	return command.Handle(ctx, user, args)
}
