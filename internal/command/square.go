package command

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"initial-bot/pkg/cmd"
)

// SquareCommand squares a 32-bit integer.
type SquareCommand struct{}

func (c *SquareCommand) Name() string        { return "square" }
func (c *SquareCommand) Group() string       { return "sample" }
func (c *SquareCommand) Description() string { return "Squares a number." }
func (c *SquareCommand) Usage() string       { return "<int>" }

func (c *SquareCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}

	arg, err := exactlyOne(inv.Args)
	if err != nil {
		return err
	}

	num, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: %q is not a 32-bit integer", ErrBadArgument, arg)
	}

	return mc.Reply(Square(num))
}

// Square formats num^2 the way the command replies, e.g. "20^2 = 400".
func Square(num int64) string {
	return fmt.Sprintf("%d^2 = %s", num, strconv.FormatFloat(math.Pow(float64(num), 2), 'f', -1, 64))
}
