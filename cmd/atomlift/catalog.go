package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/infrastructure/filesystem"
	"technuob.com/atomlift/utils"
	"technuob.com/atomlift/validation"
)

func cmdComplaints(ctx context.Context, a *app, args []string) error {
	return dispatch(ctx, a, args, map[string]command{
		"list":   complaintsList,
		"update": complaintsUpdate,
		"create": complaintsCreate,
	})
}

func complaintsList(ctx context.Context, a *app, args []string) error {
	complaints, err := a.client.Complaints.Assigned(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "REFERENCE", "STATUS", "PRIORITY", "CUSTOMER", "SUBJECT")
	for _, c := range complaints {
		row(w, utils.FirstNonEmpty(c.Reference, c.TicketID, "-"), orDash(c.Status), orDash(c.Priority), orDash(c.CustomerName),
			orDash(utils.FirstNonEmpty(c.Subject, c.Title)))
	}
	return w.Flush()
}

func complaintsUpdate(ctx context.Context, a *app, args []string) error {
	const line = "update [-status s] [-remark text] [-solution text] <reference>"
	fs := newFlags("update")
	var update v1.ComplaintStatusUpdate
	fs.StringVar(&update.Status, "status", "", "open, in_progress, resolved or closed")
	fs.StringVar(&update.TechnicianRemark, "remark", "", "technician remark")
	fs.StringVar(&update.Solution, "solution", "", "what was done")
	if err := parse(fs, args, line); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usage(line)
	}
	if update == (v1.ComplaintStatusUpdate{}) {
		return errors.New("nothing to update, give at least one of -status, -remark, -solution")
	}

	result, err := a.client.Complaints.UpdateStatus(ctx, fs.Arg(0), update)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintln(a.out, result.Message)
	return nil
}

func complaintsCreate(ctx context.Context, a *app, args []string) error {
	const line = "create -type id -customer id -contact name -mobile number -block text -assign id -priority id -subject text [-message text]"
	fs := newFlags("create")
	var form validation.ComplaintForm
	selection(fs, &form.Type, "type", "complaint type id")
	selection(fs, &form.Customer, "customer", "customer id")
	selection(fs, &form.AssignTo, "assign", "executive id")
	selection(fs, &form.Priority, "priority", "priority id")
	fs.StringVar(&form.ContactPersonName, "contact", "", "contact person name")
	fs.StringVar(&form.ContactPersonMobile, "mobile", "", "contact person mobile")
	fs.StringVar(&form.BlockWing, "block", "", "block or wing")
	fs.StringVar(&form.Subject, "subject", "", "subject")
	fs.StringVar(&form.Message, "message", "", "details")
	if err := parse(fs, args, line); err != nil {
		return err
	}

	req, err := form.Request()
	if err != nil {
		return err
	}
	result, err := a.client.Complaints.Create(ctx, req)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintln(a.out, result.Message)
	return nil
}

// selection binds an id flag to a dropdown selection.
func selection(fs *flag.FlagSet, dst *common.Selection, name, help string) {
	fs.Func(name, help, func(v string) error {
		var id int64
		if _, err := fmt.Sscan(v, &id); err != nil || id <= 0 {
			return fmt.Errorf("invalid id %q", v)
		}
		*dst = common.Selection{ID: id, Label: v}
		return nil
	})
}

func cmdAMC(ctx context.Context, a *app, args []string) error {
	return dispatch(ctx, a, args, map[string]command{
		"list":    amcList,
		"types":   amcTypes,
		"create":  amcCreate,
		"routine": amcRoutine,
	})
}

func amcList(ctx context.Context, a *app, args []string) error {
	amcs, err := a.client.AMC.List(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "AMC", "SITE", "START", "END", "STATUS", "OVERDUE")
	for _, amc := range amcs {
		row(w, amc.DisplayID(), orDash(amc.DisplaySiteName()), orDash(amc.StartDate), orDash(amc.EndDate),
			orDash(utils.FirstNonEmpty(amc.StatusDisplay, amc.Status)), amc.Overdue())
	}
	return w.Flush()
}

func amcTypes(ctx context.Context, a *app, args []string) error {
	types, err := a.client.AMC.Types(ctx)
	if err != nil {
		return err
	}
	return printIDNames(a, types)
}

func amcCreate(ctx context.Context, a *app, args []string) error {
	const line = "create -customer id -type id -start d -end d -services n -amount n [-notes text]"
	fs := newFlags("create")
	var form validation.AMCForm
	selection(fs, &form.Customer, "customer", "customer id")
	selection(fs, &form.AMCType, "type", "AMC type id")
	fs.StringVar(&form.StartDate, "start", "", "start date, YYYY-MM-DD")
	fs.StringVar(&form.EndDate, "end", "", "end date, YYYY-MM-DD")
	fs.StringVar(&form.NumberOfServices, "services", "", "number of services")
	fs.StringVar(&form.PaymentAmount, "amount", "", "payment amount")
	fs.StringVar(&form.Notes, "notes", "", "notes")
	if err := parse(fs, args, line); err != nil {
		return err
	}

	req, err := form.Request()
	if err != nil {
		return err
	}
	result, err := a.client.AMC.Create(ctx, req)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintln(a.out, result.Message)
	return nil
}

func amcRoutine(ctx context.Context, a *app, args []string) error {
	const line = "routine [-status s] [-from d] [-to d]"
	fs := newFlags("routine")
	var filter v1.RoutineServiceFilter
	fs.StringVar(&filter.Status, "status", "", "service status")
	fs.StringVar(&filter.StartDate, "from", "", "first day, YYYY-MM-DD")
	fs.StringVar(&filter.EndDate, "to", "", "last day, YYYY-MM-DD")
	if err := parse(fs, args, line); err != nil {
		return err
	}

	services, err := a.client.AMC.RoutineServices(ctx, filter)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "ID", "DATE", "STATUS", "SITE")
	for _, s := range services {
		site := "-"
		if s.AMCDetail != nil {
			site = orDash(s.AMCDetail.DisplaySiteName())
		}
		row(w, s.ID, orDash(utils.FirstNonEmpty(s.ServiceDateDisplay, s.ServiceDate)), orDash(utils.FirstNonEmpty(s.StatusDisplay, s.Status)), site)
	}
	return w.Flush()
}

func cmdCustomers(ctx context.Context, a *app, args []string) error {
	return dispatch(ctx, a, args, map[string]command{
		"list":   customersList,
		"create": customersCreate,
	})
}

func customersList(ctx context.Context, a *app, args []string) error {
	customers, err := a.client.Customers.List(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "ID", "SITE", "CITY", "CONTACT", "MOBILE")
	for _, c := range customers {
		row(w, c.ID, orDash(c.SiteName), orDash(c.City), orDash(c.ContactPersonName), orDash(utils.FirstNonEmpty(c.Mobile, c.Phone)))
	}
	return w.Flush()
}

func customersCreate(ctx context.Context, a *app, args []string) error {
	const line = "create -site name -mobile n -email addr -site-id id -address text -contact name -city name [-job no]"
	fs := newFlags("create")
	var form validation.CustomerForm
	fs.StringVar(&form.SiteName, "site", "", "site name")
	fs.StringVar(&form.Mobile, "mobile", "", "10-digit mobile number")
	fs.StringVar(&form.Email, "email", "", "email")
	fs.StringVar(&form.SiteID, "site-id", "", "site id")
	fs.StringVar(&form.SiteAddress, "address", "", "site address")
	fs.StringVar(&form.ContactPersonName, "contact", "", "contact person")
	fs.StringVar(&form.City, "city", "", "city")
	fs.StringVar(&form.JobNo, "job", "", "job number")
	if err := parse(fs, args, line); err != nil {
		return err
	}

	req, err := form.Request()
	if err != nil {
		return err
	}
	result, err := a.client.Customers.Create(ctx, req)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintln(a.out, result.Message)
	return nil
}

func cmdTravel(ctx context.Context, a *app, args []string) error {
	return dispatch(ctx, a, args, map[string]command{
		"list":   travelList,
		"create": travelCreate,
	})
}

func travelList(ctx context.Context, a *app, args []string) error {
	travels, err := a.client.Travel.List(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "ID", "DATE", "BY", "FROM", "TO", "AMOUNT")
	for _, t := range travels {
		row(w, t.ID, t.TravelDate, orDash(t.TravelBy), orDash(t.FromPlace), orDash(t.ToPlace), orDash(t.Amount))
	}
	return w.Flush()
}

func travelCreate(ctx context.Context, a *app, args []string) error {
	const line = "create -by mode -date d -from place -to place -amount n [-attachment file]"
	fs := newFlags("create")
	var form validation.TravelForm
	fs.StringVar(&form.TravelBy, "by", "", "bus, train, taxi, ...")
	fs.StringVar(&form.TravelDate, "date", "", "travel date, YYYY-MM-DD")
	fs.StringVar(&form.FromPlace, "from", "", "from place")
	fs.StringVar(&form.ToPlace, "to", "", "to place")
	fs.StringVar(&form.Amount, "amount", "", "amount")
	attachment := fs.String("attachment", "", "receipt to upload")
	if err := parse(fs, args, line); err != nil {
		return err
	}

	if err := form.Validate(); err != nil {
		return err
	}
	ref, err := uploadAttachment(ctx, a, *attachment)
	if err != nil {
		return err
	}
	form.Attachment = ref
	req, err := form.Request()
	if err != nil {
		return err
	}
	result, err := a.client.Travel.Create(ctx, req)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintln(a.out, result.Message)
	return nil
}

func cmdMaterials(ctx context.Context, a *app, args []string) error {
	return dispatch(ctx, a, args, map[string]command{
		"list":   materialsList,
		"create": materialsCreate,
		"items":  materialsItems,
	})
}

func materialsList(ctx context.Context, a *app, args []string) error {
	requests, err := a.client.Materials.List(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "ID", "DATE", "NAME", "ITEM", "REQUESTED BY")
	for _, r := range requests {
		row(w, r.ID, orDash(r.Date), orDash(r.Name), orDash(r.Item.Name), orDash(r.RequestedBy))
	}
	return w.Flush()
}

func materialsItems(ctx context.Context, a *app, args []string) error {
	items, err := a.client.Materials.Items(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "ID", "NUMBER", "NAME", "MODEL", "CAPACITY")
	for _, it := range items {
		row(w, it.ID, orDash(it.ItemNumber), orDash(it.Name), orDash(it.Model), orDash(it.Capacity))
	}
	return w.Flush()
}

func materialsCreate(ctx context.Context, a *app, args []string) error {
	const line = "create -name text -item id [-description text] [-brand text] [-file path]"
	fs := newFlags("create")
	var form validation.MaterialRequestForm
	fs.StringVar(&form.Name, "name", "", "request name")
	selection(fs, &form.Item, "item", "item id, see `materials items`")
	fs.StringVar(&form.Description, "description", "", "description")
	fs.StringVar(&form.Brand, "brand", "", "brand")
	file := fs.String("file", "", "file to upload")
	if err := parse(fs, args, line); err != nil {
		return err
	}

	if err := form.Validate(); err != nil {
		return err
	}
	ref, err := uploadAttachment(ctx, a, *file)
	if err != nil {
		return err
	}
	form.File = ref
	req, err := form.Request(a.session.Profile().DisplayName())
	if err != nil {
		return err
	}
	result, err := a.client.Materials.Create(ctx, req)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintln(a.out, result.Message)
	return nil
}

// uploadAttachment stores a local file in the attachments bucket and returns its reference. An
// empty path uploads nothing.
func uploadAttachment(ctx context.Context, a *app, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if a.cfg.Attachments.Bucket == "" {
		return "", errors.New("attachments.bucket must be configured to upload files")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	uploader, err := filesystem.ConnectS3(ctx, a.cfg.Attachments.Bucket, a.cfg.Attachments.Prefix)
	if err != nil {
		return "", err
	}
	ref, err := uploader.Upload(ctx, path, f)
	if err != nil {
		return "", err
	}
	a.log.Info().Str("reference", ref).Msg("attachment uploaded")
	return ref, nil
}

func printIDNames(a *app, items []common.IdNameDTO) error {
	w := newTable(a.out)
	row(w, "ID", "NAME")
	for _, it := range items {
		row(w, it.ID, it.Name)
	}
	return w.Flush()
}
