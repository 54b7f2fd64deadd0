/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern

import (
	"slices"

	"bennypowers.dev/netpat/diag"
)

// MaxPlanPairs bounds the length of a binding plan.
const MaxPlanPairs = MaxGroupSize

// Pair links a net atom to an endpoint atom by their atomization indices.
type Pair struct {
	Net      int `json:"net" yaml:"net"`
	Endpoint int `json:"endpoint" yaml:"endpoint"`
}

// Plan is the element-wise correspondence between a net expression and an
// endpoint expression.
type Plan struct {
	NetID      string   `json:"net" yaml:"net"`
	EndpointID string   `json:"endpoint" yaml:"endpoint"`
	Shared     []AxisID `json:"shared,omitempty" yaml:"shared,omitempty"`
	// Pairs follow endpoint atom order. Within one endpoint atom they follow
	// net atom order.
	Pairs []Pair `json:"pairs" yaml:"pairs"`
}

// Len returns the number of pairs.
func (p *Plan) Len() int {
	return len(p.Pairs)
}

// Bind matches the atoms of net to the atoms of endpoint.
//
// Named axes present in both expressions are broadcast: paired atoms always
// select the same label on them. Free axes expand independently on each side,
// so for every shared combination each free net combination is paired with
// each free endpoint combination.
//
// Without a shared axis there is nothing to broadcast and the atom counts
// must reconcile on their own: a single net fans out to every endpoint atom,
// and a net as wide as the endpoint is paired one to one in order. Anything
// else is rejected.
//
// Plan indices refer to Atomize(net) and Atomize(endpoint). A LiteralExpr
// counts as a single atom.
func Bind(net, endpoint *Expr, netID, endpointID string) (*Plan, diag.List) {
	if net == nil || endpoint == nil {
		return nil, diag.List{diag.Errorf(diag.PatternUnexpanded, nil,
			"cannot bind %s to %s: missing expression", netID, endpointID)}
	}

	shared := sharedAxes(net, endpoint)
	diags := checkShared(net, endpoint, shared, netID, endpointID)
	if diags.HasErrors() {
		return nil, diags
	}
	if more := checkSplice(net, endpoint, shared, netID, endpointID); more.HasErrors() {
		diags.Extend(more)
		return nil, diags
	}

	var (
		pairs []Pair
		more  diag.List
	)
	if len(shared) == 0 {
		pairs, more = bindFree(net, endpoint, netID, endpointID)
	} else {
		pairs, more = bindShared(net, endpoint, shared)
	}
	diags.Extend(more)
	if pairs == nil {
		return nil, diags
	}
	return &Plan{NetID: netID, EndpointID: endpointID, Shared: shared, Pairs: pairs}, diags
}

// sharedAxes returns the named axes of net that endpoint also references,
// in net order.
func sharedAxes(net, endpoint *Expr) []AxisID {
	var shared []AxisID
	for _, a := range net.Axes {
		if !a.Named() {
			continue
		}
		if _, ok := endpoint.Axis(a.ID); ok {
			shared = append(shared, a.ID)
		}
	}
	return shared
}

func checkShared(net, endpoint *Expr, shared []AxisID, netID, endpointID string) diag.List {
	var diags diag.List
	for _, id := range shared {
		n, _ := net.Axis(id)
		e, _ := endpoint.Axis(id)
		switch {
		case n.Size() != e.Size():
			diags.Add(diag.Errorf(diag.BindAxisSizeMismatch, endpoint.Span,
				"axis %q has size %d on net %s but size %d on endpoint %s",
				id, n.Size(), netID, e.Size(), endpointID))
		case !slices.Equal(n.Labels, e.Labels):
			diags.Add(diag.Errorf(diag.BindAxisLabelMismatch, endpoint.Span,
				"axis %q has labels %s on net %s but %s on endpoint %s",
				id, labelsString(n.Labels), netID, labelsString(e.Labels), endpointID))
		case n.Kind != e.Kind:
			diags.Add(diag.Warnf(diag.BindAxisKindMismatch, endpoint.Span,
				"axis %q is a %s on net %s but a %s on endpoint %s",
				id, n.Kind, netID, e.Kind, endpointID))
		}
	}
	return diags
}

func checkSplice(net, endpoint *Expr, shared []AxisID, netID, endpointID string) diag.List {
	var diags diag.List
	for _, id := range shared {
		for _, side := range []struct {
			role, id string
			e        *Expr
		}{{"net", netID, net}, {"endpoint", endpointID, endpoint}} {
			if len(side.e.Segments) < 2 {
				continue
			}
			diags.Add(diag.Errorf(diag.BindSpliceBroadcast, side.e.Span,
				"shared axis %q cannot broadcast through the %d-segment splice of %s %s",
				id, len(side.e.Segments), side.role, side.id).
				WithHint("split the spliced declaration or drop the shared axis"))
		}
	}
	return diags
}

// bindFree pairs two expressions that share no axis.
func bindFree(net, endpoint *Expr, netID, endpointID string) ([]Pair, diag.List) {
	nn := Count(net, MaxPlanPairs)
	ne := Count(endpoint, MaxPlanPairs)
	if ne > MaxPlanPairs {
		return nil, diag.List{tooLarge(endpoint, MaxPlanPairs)}
	}
	if nn != 1 && nn != ne {
		return nil, diag.List{diag.Errorf(diag.BindAxisProductMismatch, endpoint.Span,
			"axis-size product mismatch: net %s has %d atoms but endpoint %s has %d",
			netID, nn, endpointID, ne).
			WithHint("a net must be a single name or match the endpoint width")}
	}
	pairs := make([]Pair, ne)
	for i := range pairs {
		pairs[i] = Pair{Endpoint: i}
		if nn != 1 {
			pairs[i].Net = i
		}
	}
	return pairs, nil
}

// bindShared pairs two single-segment expressions through their shared axes.
func bindShared(net, endpoint *Expr, shared []AxisID) ([]Pair, diag.List) {
	netFree := slices.DeleteFunc(slices.Clone(net.Axes), func(a AxisSpec) bool {
		return slices.Contains(shared, a.ID)
	})

	total := mulCapped(product(endpoint.Axes, MaxPlanPairs), product(netFree, MaxPlanPairs), MaxPlanPairs)
	if total > MaxPlanPairs {
		return nil, diag.List{diag.Errorf(diag.PatternTooLarge, endpoint.Span,
			"binding %q to %q pairs more than %d atoms", net.Raw, endpoint.Raw, MaxPlanPairs).
			WithHint("share more axes between the net and the endpoint")}
	}

	netIdx := make(map[AxisID]int, len(net.Axes))
	pairs := make([]Pair, 0, total)
	od := newOdometer(endpoint.Axes)
	for ep, ok := 0, true; ok; ep, ok = ep+1, od.next() {
		for _, id := range shared {
			netIdx[id] = od.index(id)
		}
		free := newOdometer(netFree)
		for more := true; more; more = free.next() {
			for _, a := range netFree {
				netIdx[a.ID] = free.index(a.ID)
			}
			pairs = append(pairs, Pair{Net: mixedRadix(net.Axes, netIdx), Endpoint: ep})
		}
	}
	return pairs, nil
}

func product(axes []AxisSpec, limit int) int {
	return countAtoms([][]AxisSpec{axes}, limit)
}

func mixedRadix(axes []AxisSpec, idx map[AxisID]int) int {
	n := 0
	for _, a := range axes {
		n = n*a.Size() + idx[a.ID]
	}
	return n
}
