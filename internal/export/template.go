package export

const mapHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Resource Map</title>
<style>
:root{--bg:#0d1117;--bg2:#161b22;--bg3:#21262d;--tx:#e6edf3;--tx2:#8b949e;--bd:#30363d;--ac:#58a6ff}
body.light{--bg:#fff;--bg2:#f6f8fa;--bg3:#eaeef2;--tx:#1f2328;--tx2:#656d76;--bd:#d0d7de;--ac:#0969da}
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Helvetica,Arial,sans-serif;background:var(--bg);color:var(--tx);overflow:hidden;height:100vh}
#toolbar{display:flex;align-items:center;justify-content:space-between;height:48px;padding:0 16px;background:var(--bg2);border-bottom:1px solid var(--bd);gap:12px}
.toolbar-section{display:flex;align-items:center;gap:8px}
.title{font-size:15px;font-weight:600;white-space:nowrap}
#search{background:var(--bg3);border:1px solid var(--bd);color:var(--tx);padding:5px 10px;border-radius:6px;font-size:13px;width:220px;outline:none}
#search:focus{border-color:var(--ac)}
#stats{font-size:12px;color:var(--tx2);white-space:nowrap}
.btn{background:var(--bg3);border:1px solid var(--bd);color:var(--tx);padding:4px 10px;border-radius:6px;font-size:12px;cursor:pointer}
.btn:hover{background:var(--bd)}
#main{display:flex;height:calc(100vh - 48px)}
#sidebar{width:220px;min-width:220px;background:var(--bg2);border-right:1px solid var(--bd);overflow-y:auto;padding:12px}
.sidebar-hdr{font-size:11px;font-weight:600;text-transform:uppercase;color:var(--tx2);margin-bottom:8px;letter-spacing:.5px}
.cat-item{display:flex;align-items:center;gap:6px;padding:4px 0;cursor:pointer;font-size:13px}
.cat-color{width:10px;height:10px;border-radius:50%;flex-shrink:0}
.cat-name{flex:1;overflow:hidden;text-overflow:ellipsis;white-space:nowrap}
.cat-count{font-size:11px;color:var(--tx2)}
#graph-container{flex:1;position:relative;overflow:hidden}
#graph-container svg{width:100%;height:100%;display:block}
#info-panel{width:320px;min-width:320px;background:var(--bg2);border-left:1px solid var(--bd);overflow-y:auto;padding:16px;position:relative}
#info-panel.hidden{display:none}
#info-close{position:absolute;top:8px;right:8px;background:none;border:none;color:var(--tx2);font-size:20px;cursor:pointer}
.info-label{font-size:16px;font-weight:600;margin-bottom:4px}
.info-path{font-size:12px;color:var(--tx2);margin-bottom:12px}
.badge{font-size:11px;padding:2px 8px;border-radius:10px;border:1px solid;margin-right:4px}
.info-section{margin:12px 0}
.info-section-title{font-size:11px;font-weight:600;text-transform:uppercase;color:var(--tx2);margin-bottom:4px}
.conn-link{color:var(--ac);cursor:pointer;font-size:13px;padding:2px 0;display:block}
.conn-reason{font-size:12px;color:var(--tx2);padding-left:8px}
.edge{stroke:var(--tx2);stroke-opacity:.25}
.edge.highlighted{stroke-opacity:.8}
.node{cursor:pointer;stroke-width:1.5px}
.node.selected{stroke:var(--tx);stroke-width:3px}
.node-label{font-size:10px;fill:var(--tx);pointer-events:none;text-anchor:middle}
.dimmed{opacity:.08!important}
</style>
</head>
<body class="dark">
<div id="toolbar">
 <div class="toolbar-section"><span class="title" id="title"></span></div>
 <div class="toolbar-section"><input type="text" id="search" placeholder="Search resources, tags..."></div>
 <div class="toolbar-section"><span id="stats"></span><button class="btn" id="btn-fit">Fit</button><button class="btn" id="btn-labels">Labels</button><button class="btn" id="btn-theme">&#9788;</button></div>
</div>
<div id="main">
 <div id="sidebar"><div class="sidebar-hdr">Categories</div><div id="category-list"></div></div>
 <div id="graph-container"><svg id="graph"></svg></div>
 <div id="info-panel" class="hidden"><button id="info-close">&times;</button><div id="info-content"></div></div>
</div>
<script src="https://d3js.org/d3.v7.min.js"></script>
<script>
(function(){
var data = /*__GRAPH_DATA__*/null;
if(!data||typeof d3==='undefined'){document.getElementById('graph-container').innerHTML='<div style="padding:40px;color:var(--tx2)">Could not load visualization. Ensure internet access for D3.js.</div>';return;}

document.title=data.title||'Resource Map';
document.getElementById('title').textContent=data.title||'Resource Map';

var showLabels=true, selectedId=null, hiddenCats={};
var colorMap={};data.categories.forEach(function(c){colorMap[c.name]=c.color;});
var nodeMap={};data.nodes.forEach(function(n){nodeMap[n.id]=n;});
var radius=function(d){return 6+Math.min(d.degree,10);};

var svgEl=document.getElementById('graph');
var svg=d3.select(svgEl);
var container=svg.append('g');
var zoom=d3.zoom().scaleExtent([0.1,3]).on('zoom',function(e){container.attr('transform',e.transform);});
svg.call(zoom);
var initial=d3.zoomIdentity.translate(data.transform.x,data.transform.y).scale(data.transform.k);
svg.call(zoom.transform,initial);

var edgeEls=container.append('g').selectAll('line').data(data.edges).join('line')
 .attr('class','edge')
 .attr('stroke-width',function(e){return Math.min(1+e.weight/2,5);})
 .attr('x1',function(e){return nodeMap[e.source].x;}).attr('y1',function(e){return nodeMap[e.source].y;})
 .attr('x2',function(e){return nodeMap[e.target].x;}).attr('y2',function(e){return nodeMap[e.target].y;});
edgeEls.append('title').text(function(e){return e.reasons.join('\n');});

var nodeEls=container.append('g').selectAll('circle').data(data.nodes).join('circle')
 .attr('class','node')
 .attr('cx',function(d){return d.x;}).attr('cy',function(d){return d.y;})
 .attr('r',radius)
 .attr('fill',function(d){return colorMap[d.group]||'#8b949e';})
 .attr('stroke',function(d){return d3.color(colorMap[d.group]||'#8b949e').darker(0.5).toString();})
 .on('mouseover',function(e,d){if(!selectedId)highlight(d);})
 .on('mouseout',function(){if(!selectedId)resetHighlight();})
 .on('click',function(e,d){e.stopPropagation();select(d);});
nodeEls.append('title').text(function(d){return d.label+'\n'+d.id;});

var labelEls=container.append('g').selectAll('text').data(data.nodes).join('text')
 .attr('class','node-label')
 .attr('x',function(d){return d.x;}).attr('y',function(d){return d.y+radius(d)+10;})
 .text(function(d){return d.label;});

function neighbours(id){
 var out=[];
 data.edges.forEach(function(e){
  if(e.source===id)out.push({id:e.target,weight:e.weight,reasons:e.reasons});
  else if(e.target===id)out.push({id:e.source,weight:e.weight,reasons:e.reasons});
 });
 out.sort(function(a,b){return b.weight-a.weight;});
 return out;
}
function highlight(d){
 var conn={};conn[d.id]=true;
 neighbours(d.id).forEach(function(n){conn[n.id]=true;});
 nodeEls.classed('dimmed',function(n){return !conn[n.id];});
 labelEls.classed('dimmed',function(n){return !conn[n.id];});
 edgeEls.classed('dimmed',function(e){return e.source!==d.id&&e.target!==d.id;});
 edgeEls.classed('highlighted',function(e){return e.source===d.id||e.target===d.id;});
}
function resetHighlight(){nodeEls.classed('dimmed',false);labelEls.classed('dimmed',false);edgeEls.classed('dimmed',false).classed('highlighted',false);}

var esc=function(t){var d=document.createElement('div');d.appendChild(document.createTextNode(t||''));return d.innerHTML;};
function select(d){
 selectedId=d.id;
 nodeEls.classed('selected',function(n){return n.id===d.id;});
 highlight(d);
 var h='<div class="info-label">'+esc(d.label)+'</div><div class="info-path">'+esc(d.id)+'</div>';
 h+='<span class="badge" style="color:'+colorMap[d.group]+';border-color:'+colorMap[d.group]+'">'+esc(d.group)+'</span>';
 if(d.tags.length){h+='<div class="info-section"><div class="info-section-title">Tags</div>'+d.tags.map(esc).join(', ')+'</div>';}
 var rel=neighbours(d.id);
 if(rel.length){
  h+='<div class="info-section"><div class="info-section-title">Related ('+rel.length+')</div>';
  rel.forEach(function(r){
   var n=nodeMap[r.id];
   h+='<span class="conn-link" data-id="'+esc(r.id)+'">'+esc(n?n.label:r.id)+' <small>'+r.weight.toFixed(1)+'</small></span>';
   r.reasons.forEach(function(x){h+='<div class="conn-reason">'+esc(x)+'</div>';});
  });
  h+='</div>';
 }
 var panel=document.getElementById('info-panel');
 document.getElementById('info-content').innerHTML=h;
 panel.classList.remove('hidden');
 panel.querySelectorAll('.conn-link').forEach(function(el){
  el.addEventListener('click',function(){var n=nodeMap[el.getAttribute('data-id')];if(n)select(n);});
 });
}
function clearSelection(){selectedId=null;nodeEls.classed('selected',false);resetHighlight();document.getElementById('info-panel').classList.add('hidden');}
svg.on('click',clearSelection);
document.getElementById('info-close').addEventListener('click',clearSelection);
document.addEventListener('keydown',function(e){if(e.key==='Escape')clearSelection();});

(function(){
 var el=document.getElementById('category-list');
 var h='';
 data.categories.forEach(function(c){
  h+='<label class="cat-item"><input type="checkbox" checked data-cat="'+esc(c.name)+'">';
  h+='<span class="cat-color" style="background:'+c.color+'"></span>';
  h+='<span class="cat-name">'+esc(c.name)+'</span><span class="cat-count">'+c.count+'</span></label>';
 });
 el.innerHTML=h;
 el.addEventListener('change',function(e){
  var cat=e.target.getAttribute('data-cat');
  if(e.target.checked){delete hiddenCats[cat];}else{hiddenCats[cat]=true;}
  nodeEls.style('display',function(d){return hiddenCats[d.group]?'none':null;});
  labelEls.style('display',function(d){return hiddenCats[d.group]||!showLabels?'none':null;});
  edgeEls.style('display',function(e){return hiddenCats[nodeMap[e.source].group]||hiddenCats[nodeMap[e.target].group]?'none':null;});
 });
})();

document.getElementById('search').addEventListener('input',function(){
 var q=this.value.toLowerCase().trim();
 if(!q){resetHighlight();return;}
 var m={};
 data.nodes.forEach(function(n){if((n.id+' '+n.label+' '+n.tags.join(' ')).toLowerCase().indexOf(q)>=0)m[n.id]=true;});
 nodeEls.classed('dimmed',function(d){return !m[d.id];});
 labelEls.classed('dimmed',function(d){return !m[d.id];});
 edgeEls.classed('dimmed',function(e){return !m[e.source]&&!m[e.target];});
});

document.getElementById('btn-fit').addEventListener('click',function(){svg.transition().duration(500).call(zoom.transform,initial);});
document.getElementById('btn-labels').addEventListener('click',function(){showLabels=!showLabels;labelEls.style('display',showLabels?null:'none');});
document.getElementById('btn-theme').addEventListener('click',function(){
 document.body.classList.toggle('light');document.body.classList.toggle('dark');
 this.textContent=document.body.classList.contains('light')?'☾':'☆';
});
document.getElementById('stats').textContent=data.nodes.length+' resources · '+data.edges.length+' relationships';
})();
</script>
</body>
</html>`
