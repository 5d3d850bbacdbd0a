package app

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exo9planet/SubWallet-Extension/internal/store"
	"github.com/exo9planet/SubWallet-Extension/internal/swap"
	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

func (s *runtimeState) newQuoteCommand() *cobra.Command {
	var from, to, amountIn, address string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch a best-execution quote for a pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := pairFromFlags(from, to)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := s.handler.Init(ctx); err != nil {
				return err
			}
			req := &swap.Request{Pair: pair, FromAmount: amountIn, Address: address}
			quote, err := s.handler.GetQuote(ctx, req)
			if err != nil {
				return err
			}
			return s.emit(quote, map[string]any{"provider": s.handler.Provider()})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "from-asset slug")
	cmd.Flags().StringVar(&to, "to", "", "to-asset slug")
	cmd.Flags().StringVar(&amountIn, "amount", "", "amount in from-asset base units")
	cmd.Flags().StringVar(&address, "address", "", "requesting account address")
	return cmd
}

func (s *runtimeState) newPlanCommand() *cobra.Command {
	var from, to, amountIn, address, recipient string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Quote a swap and persist its step plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := pairFromFlags(from, to)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := s.handler.Init(ctx); err != nil {
				return err
			}

			req := &swap.Request{Pair: pair, FromAmount: amountIn, Address: address, Recipient: recipient}
			quote, err := s.handler.GetQuote(ctx, req)
			if err != nil {
				return err
			}
			path, err := s.handler.GenerateOptimalProcess(ctx, swap.OptimalProcessParams{Request: req, Quote: quote})
			if err != nil {
				return err
			}

			process := store.NewProcess(req, quote, path)
			if err := s.store.Save(process); err != nil {
				return swaperr.Wrap(swaperr.KindUnknown, "persist process", err)
			}
			s.log.Info("process planned",
				zap.String("process_id", process.ProcessID),
				zap.Int("steps", len(path.Steps)),
			)
			return s.emit(process, nil)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "from-asset slug")
	cmd.Flags().StringVar(&to, "to", "", "to-asset slug")
	cmd.Flags().StringVar(&amountIn, "amount", "", "amount in from-asset base units")
	cmd.Flags().StringVar(&address, "address", "", "requesting account address")
	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient address on the destination chain")
	return cmd
}

func (s *runtimeState) newValidateCommand() *cobra.Command {
	var recipient string
	cmd := &cobra.Command{
		Use:   "validate <process-id>",
		Short: "Re-validate a persisted process against live state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := s.handler.Init(ctx); err != nil {
				return err
			}
			process, err := s.store.Get(args[0])
			if err != nil {
				return swaperr.Wrap(swaperr.KindUnknown, "load process", err)
			}

			errs := s.handler.ValidateProcess(ctx, swap.ValidateProcessParams{
				Request:   process.Request,
				Quote:     process.Quote,
				Path:      process.Path,
				Recipient: resolveRecipient(recipient, process.Request),
			})
			if len(errs) == 0 {
				process.Touch(store.StatusValidated)
				if err := s.store.Save(process); err != nil {
					return swaperr.Wrap(swaperr.KindUnknown, "persist process", err)
				}
				return s.emit(process, nil)
			}

			out := make([]envelopeErr, 0, len(errs))
			for _, e := range errs {
				out = append(out, toEnvelopeErr(e))
			}
			return writeEnvelope(s.runner.stdout, envelope{
				Success: false,
				Data:    process,
				Errors:  out,
			})
		},
	}
	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient address, defaults to the planned one")
	return cmd
}

func (s *runtimeState) newSubmitCommand() *cobra.Command {
	var recipient string
	cmd := &cobra.Command{
		Use:   "submit <process-id>",
		Short: "Validate a process and emit the swap call for signing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := s.handler.Init(ctx); err != nil {
				return err
			}
			process, err := s.store.Get(args[0])
			if err != nil {
				return swaperr.Wrap(swaperr.KindUnknown, "load process", err)
			}

			data, err := s.handler.SubmitProcess(ctx, swap.ValidateProcessParams{
				Request:   process.Request,
				Quote:     process.Quote,
				Path:      process.Path,
				Recipient: resolveRecipient(recipient, process.Request),
			})
			if err != nil {
				return err
			}

			process.Touch(store.StatusSubmitted)
			if err := s.store.Save(process); err != nil {
				return swaperr.Wrap(swaperr.KindUnknown, "persist process", err)
			}
			s.log.Info("process submitted", zap.String("process_id", process.ProcessID))
			return s.emit(data, map[string]any{"process_id": process.ProcessID})
		},
	}
	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient address, defaults to the planned one")
	return cmd
}

func (s *runtimeState) newProcessesCommand() *cobra.Command {
	var status string
	var limit int
	cmd := &cobra.Command{
		Use:   "processes",
		Short: "List persisted swap processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			processes, err := s.store.List(store.Status(status), limit)
			if err != nil {
				return swaperr.Wrap(swaperr.KindUnknown, "list processes", err)
			}
			return s.emit(processes, map[string]any{"count": len(processes)})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status: planned, validated, submitted")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of processes")
	return cmd
}

// resolveRecipient falls back to the request's recipient and then the
// requesting address, matching how funds settle when no explicit
// recipient was ever given.
func resolveRecipient(flag string, req *swap.Request) string {
	if flag != "" {
		return flag
	}
	if req == nil {
		return ""
	}
	if req.Recipient != "" {
		return req.Recipient
	}
	return req.Address
}
