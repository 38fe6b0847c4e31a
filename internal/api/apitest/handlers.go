package apitest

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opscenter-labs/opsconsole/internal/api"
)

func clusterName(c api.Cluster) string          { return c.Name }
func serverName(s api.Server) string            { return s.Name }
func tokenID(t api.Token) uuid.UUID             { return t.UUID }
func seedName(s api.TokenSeed) string           { return s.Name }
func updateID(u api.Update) uuid.UUID           { return u.UUID }
func channelName(c api.Channel) string          { return c.Name }
func templateName(t api.ClusterTemplate) string { return t.Name }
func itemID(i api.InventoryItem) uuid.UUID      { return i.UUID }

// Clusters

func (b *Backend) listClusters(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeSync(w, http.StatusOK, b.data.Clusters)
}

func (b *Backend) getCluster(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Clusters, clusterName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "cluster not found")
		return
	}
	writeSync(w, http.StatusOK, b.data.Clusters[i])
}

func (b *Backend) createCluster(w http.ResponseWriter, r *http.Request) {
	var req api.ClusterPost
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if indexBy(b.data.Clusters, clusterName, req.Name) >= 0 {
		writeError(w, http.StatusConflict, "cluster already exists")
		return
	}
	b.data.Clusters = append(b.data.Clusters, api.Cluster{
		Name:        req.Name,
		ServerNames: req.ServerNames,
		Status:      "ready",
		LastUpdated: now(),
	})
	writeSync(w, http.StatusCreated, map[string]any{})
}

func (b *Backend) renameCluster(w http.ResponseWriter, r *http.Request) {
	var req api.NamePost
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Clusters, clusterName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "cluster not found")
		return
	}
	if indexBy(b.data.Clusters, clusterName, req.Name) >= 0 {
		writeError(w, http.StatusConflict, "cluster already exists")
		return
	}
	b.data.Clusters[i].Name = req.Name
	writeOK(w)
}

func (b *Backend) deleteCluster(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Clusters, clusterName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "cluster not found")
		return
	}
	b.data.Clusters = slices.Delete(b.data.Clusters, i, i+1)
	writeOK(w)
}

func (b *Backend) resyncCluster(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Clusters, clusterName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "cluster not found")
		return
	}
	b.data.Clusters[i].LastUpdated = now()
	writeOK(w)
}

// Servers

func (b *Backend) listServers(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeSync(w, http.StatusOK, b.data.Servers)
}

func (b *Backend) getServer(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Servers, serverName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "server not found")
		return
	}
	writeSync(w, http.StatusOK, b.data.Servers[i])
}

func (b *Backend) updateServer(w http.ResponseWriter, r *http.Request) {
	var req api.ServerPut
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Servers, serverName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "server not found")
		return
	}
	b.data.Servers[i].PublicConnectionURL = req.PublicConnectionURL
	b.data.Servers[i].LastUpdated = now()
	writeOK(w)
}

func (b *Backend) renameServer(w http.ResponseWriter, r *http.Request) {
	var req api.NamePost
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Servers, serverName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "server not found")
		return
	}
	if indexBy(b.data.Servers, serverName, req.Name) >= 0 {
		writeError(w, http.StatusConflict, "server already exists")
		return
	}
	b.data.Servers[i].Name = req.Name
	writeOK(w)
}

func (b *Backend) deleteServer(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Servers, serverName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "server not found")
		return
	}
	b.data.Servers = slices.Delete(b.data.Servers, i, i+1)
	writeOK(w)
}

// Tokens

func (b *Backend) listTokens(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeSync(w, http.StatusOK, b.data.Tokens)
}

func (b *Backend) getToken(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Tokens, tokenID, id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	writeSync(w, http.StatusOK, b.data.Tokens[i])
}

func (b *Backend) createToken(w http.ResponseWriter, r *http.Request) {
	var req api.TokenPut
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data.Tokens = append(b.data.Tokens, api.Token{
		UUID:          uuid.New(),
		UsesRemaining: req.UsesRemaining,
		ExpireAt:      req.ExpireAt,
		Description:   req.Description,
	})
	writeSync(w, http.StatusCreated, map[string]any{})
}

func (b *Backend) updateToken(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r)
	if !ok {
		return
	}
	var req api.TokenPut
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Tokens, tokenID, id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	b.data.Tokens[i].UsesRemaining = req.UsesRemaining
	b.data.Tokens[i].ExpireAt = req.ExpireAt
	b.data.Tokens[i].Description = req.Description
	writeOK(w)
}

func (b *Backend) deleteToken(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Tokens, tokenID, id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	b.data.Tokens = slices.Delete(b.data.Tokens, i, i+1)
	delete(b.data.Seeds, id)
	writeOK(w)
}

func (b *Backend) listSeeds(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if indexBy(b.data.Tokens, tokenID, id) < 0 {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	seeds := b.data.Seeds[id]
	if seeds == nil {
		seeds = []api.TokenSeed{}
	}
	writeSync(w, http.StatusOK, seeds)
}

func (b *Backend) createSeed(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r)
	if !ok {
		return
	}
	var req api.TokenSeedPost
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if indexBy(b.data.Tokens, tokenID, id) < 0 {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	if indexBy(b.data.Seeds[id], seedName, req.Name) >= 0 {
		writeError(w, http.StatusConflict, "seed already exists")
		return
	}
	b.data.Seeds[id] = append(b.data.Seeds[id], api.TokenSeed{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
		Seeds:       req.Seeds,
		LastUpdated: now(),
	})
	writeSync(w, http.StatusCreated, map[string]any{})
}

func (b *Backend) deleteSeed(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	seeds := b.data.Seeds[id]
	i := indexBy(seeds, seedName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "seed not found")
		return
	}
	b.data.Seeds[id] = slices.Delete(seeds, i, i+1)
	writeOK(w)
}

// Updates

func (b *Backend) listUpdates(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeSync(w, http.StatusOK, b.data.Updates)
}

func (b *Backend) getUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Updates, updateID, id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "update not found")
		return
	}
	writeSync(w, http.StatusOK, b.data.Updates[i])
}

func (b *Backend) listFiles(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if indexBy(b.data.Updates, updateID, id) < 0 {
		writeError(w, http.StatusNotFound, "update not found")
		return
	}
	files := b.data.Files[id]
	if files == nil {
		files = []api.UpdateFile{}
	}
	writeSync(w, http.StatusOK, files)
}

func (b *Backend) refreshUpdates(w http.ResponseWriter, _ *http.Request) {
	writeOK(w)
}

// Channels

func (b *Backend) listChannels(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeSync(w, http.StatusOK, b.data.Channels)
}

func (b *Backend) getChannel(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Channels, channelName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "channel not found")
		return
	}
	writeSync(w, http.StatusOK, b.data.Channels[i])
}

func (b *Backend) createChannel(w http.ResponseWriter, r *http.Request) {
	var req api.ChannelPost
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if indexBy(b.data.Channels, channelName, req.Name) >= 0 {
		writeError(w, http.StatusConflict, "channel already exists")
		return
	}
	b.data.Channels = append(b.data.Channels, api.Channel{
		Name:        req.Name,
		Description: req.Description,
		LastUpdated: now(),
	})
	writeSync(w, http.StatusCreated, map[string]any{})
}

func (b *Backend) updateChannel(w http.ResponseWriter, r *http.Request) {
	var req api.ChannelPut
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Channels, channelName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "channel not found")
		return
	}
	b.data.Channels[i].Description = req.Description
	b.data.Channels[i].LastUpdated = now()
	writeOK(w)
}

func (b *Backend) deleteChannel(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Channels, channelName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "channel not found")
		return
	}
	b.data.Channels = slices.Delete(b.data.Channels, i, i+1)
	writeOK(w)
}

// Cluster templates

func (b *Backend) listTemplates(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeSync(w, http.StatusOK, b.data.Templates)
}

func (b *Backend) getTemplate(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Templates, templateName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "cluster template not found")
		return
	}
	writeSync(w, http.StatusOK, b.data.Templates[i])
}

func (b *Backend) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req api.ClusterTemplatePost
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if indexBy(b.data.Templates, templateName, req.Name) >= 0 {
		writeError(w, http.StatusConflict, "cluster template already exists")
		return
	}
	b.data.Templates = append(b.data.Templates, api.ClusterTemplate{
		Name:                      req.Name,
		Description:               req.Description,
		ServiceConfigTemplate:     req.ServiceConfigTemplate,
		ApplicationConfigTemplate: req.ApplicationConfigTemplate,
		Variables:                 req.Variables,
		LastUpdated:               now(),
	})
	writeSync(w, http.StatusCreated, map[string]any{})
}

func (b *Backend) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var req api.ClusterTemplatePut
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Templates, templateName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "cluster template not found")
		return
	}
	t := &b.data.Templates[i]
	t.Description = req.Description
	t.ServiceConfigTemplate = req.ServiceConfigTemplate
	t.ApplicationConfigTemplate = req.ApplicationConfigTemplate
	t.Variables = req.Variables
	t.LastUpdated = now()
	writeOK(w)
}

func (b *Backend) renameTemplate(w http.ResponseWriter, r *http.Request) {
	var req api.NamePost
	if !decodeBody(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Templates, templateName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "cluster template not found")
		return
	}
	if indexBy(b.data.Templates, templateName, req.Name) >= 0 {
		writeError(w, http.StatusConflict, "cluster template already exists")
		return
	}
	b.data.Templates[i].Name = req.Name
	writeOK(w)
}

func (b *Backend) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexBy(b.data.Templates, templateName, chi.URLParam(r, "name"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "cluster template not found")
		return
	}
	b.data.Templates = slices.Delete(b.data.Templates, i, i+1)
	writeOK(w)
}

// Inventory

func inventoryKind(w http.ResponseWriter, r *http.Request) (api.InventoryKind, bool) {
	raw := []byte(chi.URLParam(r, "kind"))
	for i, c := range raw {
		if c == '-' {
			raw[i] = '_'
		}
	}
	kind, err := api.ParseInventoryKind(string(raw))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return kind, true
}

func (b *Backend) listInventory(w http.ResponseWriter, r *http.Request) {
	kind, ok := inventoryKind(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	b.mu.Lock()
	defer b.mu.Unlock()
	items := []api.InventoryItem{}
	for _, item := range b.data.Inventory[kind] {
		if matches(q.Get("cluster"), item.Cluster) &&
			matches(q.Get("server"), item.Server) &&
			matches(q.Get("project"), item.ProjectName) {
			items = append(items, item)
		}
	}
	writeSync(w, http.StatusOK, items)
}

func (b *Backend) getInventory(w http.ResponseWriter, r *http.Request) {
	kind, ok := inventoryKind(w, r)
	if !ok {
		return
	}
	id, ok := parseUUID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.data.Inventory[kind]
	i := indexBy(items, itemID, id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "inventory item not found")
		return
	}
	writeSync(w, http.StatusOK, items[i])
}

// System

func (b *Backend) getSystem(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch chi.URLParam(r, "section") {
	case "network":
		writeSync(w, http.StatusOK, b.data.Network)
	case "security":
		writeSync(w, http.StatusOK, b.data.Security)
	case "updates":
		writeSync(w, http.StatusOK, b.data.Source)
	case "settings":
		writeSync(w, http.StatusOK, b.data.Settings)
	default:
		writeError(w, http.StatusNotFound, "unknown system section")
	}
}

func (b *Backend) putSystem(w http.ResponseWriter, r *http.Request) {
	var target any
	switch chi.URLParam(r, "section") {
	case "network":
		target = &api.SystemNetwork{}
	case "security":
		target = &api.SystemSecurity{}
	case "updates":
		target = &api.SystemUpdates{}
	case "settings":
		target = &api.SystemSettings{}
	default:
		writeError(w, http.StatusNotFound, "unknown system section")
		return
	}
	if !decodeBody(w, r, target) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	switch v := target.(type) {
	case *api.SystemNetwork:
		b.data.Network = *v
	case *api.SystemSecurity:
		b.data.Security = *v
	case *api.SystemUpdates:
		b.data.Source = *v
	case *api.SystemSettings:
		b.data.Settings = *v
	}
	writeOK(w)
}
