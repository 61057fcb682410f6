package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/gogotex/gogotex/backend/go-editor/cmd/editor/internal/ui"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/internal/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const sessionHelp = `Commands:
  load [owner]   fetch the owner's draft (default: --owner)
  title <text>   replace the working title
  body <text>    replace the working body (\n starts a new line)
  save           save the working copy as a draft
  publish        publish the draft
  approve        approve the draft
  reject         reject the draft
  show           print the current state
  help           print this help
  quit           leave the session`

func newSessionCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Edit a draft interactively",
		Long: `Start an interactive editing session. The owner's draft is loaded on start.

` + sessionHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context(), v)
			if err != nil {
				return err
			}
			ctl := editor.New(c)
			sub := ctl.Subscribe(eventBuffer)
			defer sub.Close()
			s := &session{ctl: ctl, sub: sub, out: ui.NewPrinter(cmd.OutOrStdout()), owner: v.GetString("owner")}
			return s.run(cmd.Context(), bufio.NewScanner(cmd.InOrStdin()))
		},
	}
}

// eventBuffer covers the events of one intent with room to spare.
const eventBuffer = 64

// session drives one controller from a line-oriented command loop. All
// output is rendered from the controller's events on the loop goroutine.
type session struct {
	ctl   *editor.Controller
	sub   *editor.Subscription
	out   *ui.Printer
	owner string
	// pending is the in-flight intent seen in the last state event.
	pending editor.Intent
}

func (s *session) run(ctx context.Context, in *bufio.Scanner) error {
	in.Buffer(make([]byte, 0, 64*1024), 1<<20)

	s.load(ctx, s.owner)
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.out.Prompt()
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "load":
			owner := s.owner
			if arg != "" {
				owner = arg
			}
			s.load(ctx, owner)
		case "title":
			s.dispatch(ctx, func(context.Context) { s.ctl.UpdateTitle(arg) })
		case "body":
			body := strings.ReplaceAll(arg, `\n`, "\n")
			s.dispatch(ctx, func(context.Context) { s.ctl.UpdateBody(body) })
		case "save":
			s.intent(ctx, editor.IntentSave, s.ctl.SaveDraft)
		case "publish":
			s.intent(ctx, editor.IntentPublish, s.ctl.Publish)
		case "approve":
			s.intent(ctx, editor.IntentApprove, s.ctl.Approve)
		case "reject":
			s.intent(ctx, editor.IntentReject, s.ctl.Reject)
		case "show":
			s.out.State(s.ctl.State())
		case "help", "?":
			s.out.Info(sessionHelp)
		case "quit", "exit":
			return nil
		default:
			s.out.Info(fmt.Sprintf("unknown command %q, type help", cmd))
		}
	}
}

func (s *session) load(ctx context.Context, owner string) {
	s.dispatch(ctx, func(ctx context.Context) { s.ctl.LoadDraft(ctx, owner) })
}

// dispatch runs fn in the background and renders events until it returns
// and the subscription is drained.
func (s *session) dispatch(ctx context.Context, fn func(context.Context)) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(ctx)
	}()
	for {
		select {
		case e := <-s.sub.C:
			s.render(e)
		case <-done:
			for {
				select {
				case e := <-s.sub.C:
					s.render(e)
				default:
					return
				}
			}
		}
	}
}

// render prints an in-progress line when a call starts, the new state when it
// completes, and every notification. Plain edits print nothing.
func (s *session) render(e editor.Event) {
	switch e.Kind {
	case editor.EventNotification:
		s.out.Notify(e.Notification)
	case editor.EventState:
		st := e.State
		switch {
		case st.Pending != "" && st.Pending != s.pending:
			s.out.Pending(st.Pending)
		case st.Pending == "" && s.pending != "":
			s.out.State(st)
		}
		s.pending = st.Pending
	}
}

// intent runs a mutating intent, reporting why nothing happened when the
// controller ignores it.
func (s *session) intent(ctx context.Context, i editor.Intent, fn func(context.Context)) {
	before := s.ctl.State()
	if before.Document == nil {
		s.out.Info("no document loaded")
		return
	}
	if i != editor.IntentSave && before.Document.Status != document.StatusDraft {
		s.out.Info(fmt.Sprintf("cannot %s a %s post", i, before.Document.Status))
		return
	}
	s.dispatch(ctx, fn)
}
