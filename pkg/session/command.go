package session

import (
	"slices"

	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

// Command types.
const (
	CmdWheel   = "wheel"
	CmdPan     = "pan"
	CmdPinch   = "pinch"
	CmdZoomIn  = "zoom_in"
	CmdZoomOut = "zoom_out"
	CmdZoomTo  = "zoom_to"
	CmdReset   = "reset"
	CmdCenter  = "center"
	CmdFit     = "fit"
	CmdRestore = "restore"
	CmdResize  = "resize"
)

// Commands lists every supported command type.
var Commands = []string{
	CmdWheel, CmdPan, CmdPinch, CmdZoomIn, CmdZoomOut, CmdZoomTo,
	CmdReset, CmdCenter, CmdFit, CmdRestore, CmdResize,
}

// Command is one camera operation on a session. Which fields are read
// depends on Type:
//
//	wheel    X, Y, DeltaY
//	pan      From, To (a drag on the empty canvas)
//	pinch    Start, End (two touch points each)
//	zoom_to  Scale
//	center   Node, Scale (0 keeps the current scale), Offset
//	fit      Padding (nil uses the session padding)
//	restore  State
//	resize   Canvas
type Command struct {
	Type    string          `json:"type"`
	X       float64         `json:"x,omitempty"`
	Y       float64         `json:"y,omitempty"`
	DeltaY  float64         `json:"delta_y,omitempty"`
	From    geom.Point      `json:"from"`
	To      geom.Point      `json:"to"`
	Start   []geom.Point    `json:"start,omitempty"`
	End     []geom.Point    `json:"end,omitempty"`
	Scale   float64         `json:"scale,omitempty"`
	Node    string          `json:"node,omitempty"`
	Offset  geom.Point      `json:"offset"`
	Padding *float64        `json:"padding,omitempty"`
	State   *viewport.State `json:"state,omitempty"`
	Canvas  *geom.Size      `json:"canvas,omitempty"`
}

// Validate checks that the command is well-formed. It does not look at the
// session, so unknown node ids are reported by Apply.
func (c Command) Validate() error {
	if !slices.Contains(Commands, c.Type) {
		return errors.New(errors.ErrCodeInvalidCommand, "unknown command %q", c.Type)
	}
	switch c.Type {
	case CmdPinch:
		if len(c.Start) != 2 || len(c.End) != 2 {
			return errors.New(errors.ErrCodeInvalidCommand, "pinch needs two start and two end points")
		}
	case CmdZoomTo:
		if c.Scale <= 0 {
			return errors.New(errors.ErrCodeInvalidCommand, "zoom_to needs a positive scale")
		}
	case CmdCenter:
		if err := errors.ValidateNodeID(c.Node); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCommand, err, "center needs a node")
		}
	case CmdRestore:
		if c.State == nil {
			return errors.New(errors.ErrCodeInvalidCommand, "restore needs a state")
		}
	case CmdResize:
		if c.Canvas == nil {
			return errors.New(errors.ErrCodeInvalidCommand, "resize needs a canvas size")
		}
	}
	return nil
}

// Apply runs cmd against the session's viewport and stores the resulting
// state. It reports whether the transform changed. Non-finite input is
// dropped by the controller and reported as unchanged.
func (s *Session) Apply(cmd Command, opts ...viewport.Option) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}
	ctrl := s.Controller(opts...)

	var changed bool
	switch cmd.Type {
	case CmdWheel:
		changed = ctrl.Wheel(viewport.WheelEvent{ClientX: cmd.X, ClientY: cmd.Y, DeltaY: cmd.DeltaY})
	case CmdPan:
		ctrl.PointerDown(viewport.PointerEvent{ClientX: cmd.From.X, ClientY: cmd.From.Y})
		changed = ctrl.PointerMove(viewport.PointerEvent{ClientX: cmd.To.X, ClientY: cmd.To.Y})
		ctrl.PointerUp()
	case CmdPinch:
		ctrl.TouchStart(touches(cmd.Start))
		changed = ctrl.TouchMove(touches(cmd.End))
		ctrl.TouchEnd(viewport.TouchEvent{})
	case CmdZoomIn:
		changed = ctrl.ZoomIn()
	case CmdZoomOut:
		changed = ctrl.ZoomOut()
	case CmdZoomTo:
		changed = ctrl.ZoomTo(cmd.Scale)
	case CmdReset:
		changed = ctrl.ResetView()
	case CmdCenter:
		n, ok := s.Node(cmd.Node)
		if !ok {
			return false, errors.New(errors.ErrCodeNodeNotFound, "node %q not in layout", cmd.Node)
		}
		scale := cmd.Scale
		if scale == 0 {
			scale = s.Viewport.Scale
		}
		changed = ctrl.CenterOnNode(geom.Point{X: n.X, Y: n.Y}, scale, cmd.Offset)
		s.Selected = n.ID
	case CmdFit:
		padding := s.Padding
		if cmd.Padding != nil {
			padding = *cmd.Padding
		}
		changed = ctrl.FitToScreen(s.Layout.Bounds, padding)
	case CmdRestore:
		changed = ctrl.Restore(*cmd.State)
	case CmdResize:
		if !ctrl.SetViewportSize(*cmd.Canvas) {
			return false, errors.New(errors.ErrCodeInvalidCommand, "invalid canvas size")
		}
		changed = s.Canvas != *cmd.Canvas
		s.Canvas = *cmd.Canvas
	}

	s.Viewport = ctrl.State()
	return changed, nil
}

func touches(pts []geom.Point) viewport.TouchEvent {
	ev := viewport.TouchEvent{Touches: make([]viewport.Touch, len(pts))}
	for i, p := range pts {
		ev.Touches[i] = viewport.Touch{ID: i, ClientX: p.X, ClientY: p.Y}
	}
	return ev
}
