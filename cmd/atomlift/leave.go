package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/validation"
)

func cmdLeave(ctx context.Context, a *app, args []string) error {
	return dispatch(ctx, a, args, map[string]command{
		"list":   leaveList,
		"types":  leaveTypes,
		"counts": leaveCounts,
		"create": leaveCreate,
		"update": leaveUpdate,
		"delete": leaveDelete,
	})
}

func leaveList(ctx context.Context, a *app, args []string) error {
	leaves, err := a.client.Leave.List(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "ID", "TYPE", "FROM", "TO", "HALF DAY", "STATUS", "REASON")
	for _, l := range leaves {
		row(w, l.ID, orDash(l.LeaveType), l.FromDate, l.ToDate, l.HalfDay, common.ParseLeaveStatus(string(l.Status)), orDash(l.Reason))
	}
	return w.Flush()
}

func leaveTypes(ctx context.Context, a *app, args []string) error {
	types, err := a.client.Leave.Types(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "KEY", "NAME")
	for _, t := range types {
		row(w, t.Key, t.Name)
	}
	return w.Flush()
}

func leaveCounts(ctx context.Context, a *app, args []string) error {
	counts, err := a.client.Leave.Counts(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "TYPE", "ALLOTTED", "USED", "REMAINING")
	for _, c := range counts.Counts {
		name := c.LeaveTypeDisplay
		if name == "" {
			name = c.LeaveType
		}
		row(w, name, c.TotalAllotted, c.TotalUsed, c.TotalRemaining)
	}
	if counts.TotalAllLeavesAllotted != nil && counts.TotalAllLeavesUsed != nil && counts.TotalAllLeavesRemaining != nil {
		row(w, "Total", *counts.TotalAllLeavesAllotted, *counts.TotalAllLeavesUsed, *counts.TotalAllLeavesRemaining)
	}
	return w.Flush()
}

type leaveFlags struct {
	leaveType, from, to, reason, email string
	halfDay                            bool
}

func (f *leaveFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.leaveType, "type", "", "leave type key, see `leave types`")
	fs.StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	fs.StringVar(&f.to, "to", "", "last day, YYYY-MM-DD")
	fs.StringVar(&f.reason, "reason", "", "reason for the leave")
	fs.StringVar(&f.email, "email", "", "contact email, defaults to your profile email")
	fs.BoolVar(&f.halfDay, "half-day", false, "half day on the from date")
}

// apply copies the flags that were given onto form, going through the setters so the date rules hold.
func (f *leaveFlags) apply(fs *flag.FlagSet, form *validation.LeaveForm) error {
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["type"] {
		form.LeaveType = f.leaveType
	}
	if set["reason"] {
		form.Reason = f.reason
	}
	if set["email"] {
		form.Email = f.email
	}
	if set["half-day"] {
		form.SetHalfDay(f.halfDay)
	}
	if set["from"] && set["to"] {
		// Both move at once, so neither setter should compare against the old value.
		form.FromDate, form.ToDate = "", ""
	}
	if set["from"] {
		if err := form.SetFromDate(f.from); err != nil {
			return err
		}
	}
	if set["to"] && !form.HalfDay {
		if err := form.SetToDate(f.to); err != nil {
			return err
		}
	}
	return nil
}

func leaveCreate(ctx context.Context, a *app, args []string) error {
	const line = "create -type key -from d [-to d | -half-day] -reason text [-email addr]"
	fs := newFlags("create")
	var flags leaveFlags
	flags.register(fs)
	if err := parse(fs, args, line); err != nil {
		return err
	}

	form := &validation.LeaveForm{Email: a.session.Profile().Email}
	if err := flags.apply(fs, form); err != nil {
		return err
	}
	req, err := form.Request()
	if err != nil {
		return err
	}
	result, err := a.client.Leave.Create(ctx, req)
	if err != nil {
		return err
	}
	return printLeaveResult(a, result)
}

func leaveUpdate(ctx context.Context, a *app, args []string) error {
	const line = "update [-type key] [-from d] [-to d] [-half-day] [-reason text] [-email addr] <id>"
	fs := newFlags("update")
	var flags leaveFlags
	flags.register(fs)
	if err := parse(fs, args, line); err != nil {
		return err
	}
	id, err := leaveID(fs, line)
	if err != nil {
		return err
	}

	current, err := a.client.Leave.Get(ctx, id)
	if err != nil {
		return err
	}
	form := validation.LeaveFormFrom(*current)
	if err := flags.apply(fs, form); err != nil {
		return err
	}
	req, err := form.UpdateRequest(common.ParseLeaveStatus(string(current.Status)))
	if err != nil {
		return err
	}
	result, err := a.client.Leave.Update(ctx, id, req)
	if err != nil {
		return err
	}
	return printLeaveResult(a, result)
}

func leaveDelete(ctx context.Context, a *app, args []string) error {
	const line = "delete <id>"
	fs := newFlags("delete")
	if err := parse(fs, args, line); err != nil {
		return err
	}
	id, err := leaveID(fs, line)
	if err != nil {
		return err
	}

	current, err := a.client.Leave.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := validation.EnsureLeaveEditable(common.ParseLeaveStatus(string(current.Status))); err != nil {
		return err
	}
	result, err := a.client.Leave.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintln(a.out, result.Message)
	return nil
}

func leaveID(fs *flag.FlagSet, line string) (int64, error) {
	if fs.NArg() != 1 {
		return 0, usage(line)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, usage(line)
	}
	return id, nil
}

func printLeaveResult(a *app, result *common.ActionResult[*v1.LeaveDTO]) error {
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintln(a.out, result.Message)
	if l := result.Data; l != nil {
		fmt.Fprintf(a.out, "#%d %s %s..%s (%s)\n", l.ID, l.LeaveType, l.FromDate, l.ToDate, common.ParseLeaveStatus(string(l.Status)))
	}
	return nil
}
