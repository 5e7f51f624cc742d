package graphview

import "math"

// Layout advances the force simulation by steps ticks of dt seconds.
// Nodes repel each other, edges act as springs and gravity pulls toward
// the origin. A node being dragged or a locked node stays put.
func (g *Graph) Layout(steps int, dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for s := 0; s < steps; s++ {
		g.layoutTick(dt)
	}
}

func (g *Graph) layoutTick(dt float64) {
	o := g.opts
	nodes := g.nodes

	// Repulsion forces between all nodes
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			dx := nodes[j].data.X - nodes[i].data.X
			dy := nodes[j].data.Y - nodes[i].data.Y
			dist2 := dx*dx + dy*dy + 0.01
			force := o.Repulsion / dist2
			invDist := 1.0 / math.Sqrt(dist2)
			fx := force * dx * invDist
			fy := force * dy * invDist
			nodes[i].vx -= fx
			nodes[i].vy -= fy
			nodes[j].vx += fx
			nodes[j].vy += fy
		}
	}

	// Spring forces for edges
	for _, e := range g.edges {
		src, dst := e.source, e.target
		dx := dst.data.X - src.data.X
		dy := dst.data.Y - src.data.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			continue
		}
		diff := dist - o.SpringLength
		fx := o.SpringStiffness * diff * dx / dist
		fy := o.SpringStiffness * diff * dy / dist
		src.vx += fx
		src.vy += fy
		dst.vx -= fx
		dst.vy -= fy
	}

	if o.Gravity > 0 {
		for _, n := range nodes {
			n.vx -= n.data.X * o.Gravity
			n.vy -= n.data.Y * o.Gravity
		}
	}

	var dragged *NodeElement
	if g.press != nil {
		dragged = g.press.grabbed
	}
	for _, n := range nodes {
		if n == dragged || n.data.Locked {
			n.vx, n.vy = 0, 0
			continue
		}
		n.vx *= o.Damping
		n.vy *= o.Damping
		n.data.X += n.vx * dt
		n.data.Y += n.vy * dt
	}
}
